package api

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rpupo63/portfolio-site-backend/models"
	"github.com/rpupo63/portfolio-site-backend/services"
)

func TestFormFieldsList(t *testing.T) {
	tests := []struct {
		name   string
		values map[string][]string
		want   *[]string
	}{
		{"absent", map[string][]string{}, nil},
		{"indexed out of order", map[string][]string{"features[1]": {"a"}, "features[0]": {"b"}}, &[]string{"b", "a"}},
		{"sparse and non numeric", map[string][]string{"features[5]": {"c"}, "features[x]": {"skip"}, "features[2]": {"d"}}, &[]string{"d", "c"}},
		{"dropped values", map[string][]string{"features[0]": {"undefined"}, "features[1]": {"null"}, "features[2]": {""}, "features[3]": {"ok"}}, &[]string{"ok"}},
		{"stringified json", map[string][]string{"features": {`["x","y"]`}}, &[]string{"x", "y"}},
		{"single value", map[string][]string{"features": {"solo"}}, &[]string{"solo"}},
		{"empty value", map[string][]string{"features": {""}}, &[]string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := formFields(tt.values).list("features")
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormFieldsText(t *testing.T) {
	f := formFields{"a": {"undefined"}, "b": {"null"}, "c": {"value"}}

	got, _ := f.text("a")
	assert.Nil(t, got)

	got, _ = f.text("b")
	require.NotNil(t, got)
	assert.Equal(t, "", *got)

	got, _ = f.text("c")
	require.NotNil(t, got)
	assert.Equal(t, "value", *got)

	got, _ = f.text("missing")
	assert.Nil(t, got)
}

func TestJSONFields(t *testing.T) {
	var f jsonFields
	require.NoError(t, json.Unmarshal([]byte(`{
		"arr": ["a", null, "", "b"],
		"str": "[\"x\"]",
		"plain": "one",
		"num": 3,
		"obj": {"k": 1},
		"flagTrue": true,
		"flagText": "1",
		"flagOff": "no"
	}`), &f))

	list, err := f.list("arr")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, *list)

	list, err = f.list("str")
	require.NoError(t, err)
	assert.Equal(t, []string{"x"}, *list)

	list, err = f.list("plain")
	require.NoError(t, err)
	assert.Equal(t, []string{"one"}, *list)

	_, err = f.list("obj")
	assert.Error(t, err)

	text, err := f.text("num")
	require.NoError(t, err)
	assert.Equal(t, "3", *text)

	_, err = f.text("obj")
	assert.Error(t, err)

	for name, want := range map[string]bool{"flagTrue": true, "flagText": true, "flagOff": false, "absent": false} {
		got, err := f.flag(name)
		require.NoError(t, err)
		assert.Equal(t, want, got, name)
	}
}

func strPtr(s string) *string { return &s }

func TestPlanMedia(t *testing.T) {
	slot := newProjectSlots(services.NewFolders("")).thumbnail
	current := models.MediaRef{URL: "https://cdn/t1.png", PublicID: "t1"}
	var assigned models.MediaRef
	set := func(ref models.MediaRef) { assigned = ref }

	t.Run("keep when nothing supplied", func(t *testing.T) {
		plan, problems := planMedia(slot, current, mediaInput{}, false, set)
		require.Empty(t, problems)
		assert.Equal(t, mediaKeep, plan.action)
		assert.Empty(t, replaced([]*mediaPlan{plan}))
	})

	t.Run("removal beats pair", func(t *testing.T) {
		in := mediaInput{Remove: true, URL: strPtr("https://cdn/t2.png"), PublicID: strPtr("t2")}
		plan, problems := planMedia(slot, current, in, false, set)
		require.Empty(t, problems)
		assert.Equal(t, mediaClear, plan.action)
		assert.True(t, plan.next.IsZero())
		assert.Equal(t, []storedAsset{{publicID: "t1", kind: services.MediaImage}}, replaced([]*mediaPlan{plan}))
	})

	t.Run("removal ignored on create", func(t *testing.T) {
		plan, problems := planMedia(slot, models.MediaRef{}, mediaInput{Remove: true}, true, set)
		require.Empty(t, problems)
		assert.Equal(t, mediaKeep, plan.action)
	})

	t.Run("same pair kept", func(t *testing.T) {
		in := mediaInput{URL: strPtr(current.URL), PublicID: strPtr(current.PublicID)}
		plan, _ := planMedia(slot, current, in, false, set)
		assert.Equal(t, mediaKeep, plan.action)
	})

	t.Run("new pair replaces", func(t *testing.T) {
		in := mediaInput{URL: strPtr("https://cdn/t2.png"), PublicID: strPtr("t2")}
		plan, _ := planMedia(slot, current, in, false, set)
		assert.Equal(t, mediaReplace, plan.action)
		plan.set(plan.next)
		assert.Equal(t, "t2", assigned.PublicID)
	})

	t.Run("new url same public id", func(t *testing.T) {
		in := mediaInput{URL: strPtr("https://cdn/v2/t1.png"), PublicID: strPtr("t1")}
		plan, _ := planMedia(slot, current, in, false, set)
		assert.Equal(t, mediaReplace, plan.action)
		assert.Empty(t, replaced([]*mediaPlan{plan}))
	})

	t.Run("half pair", func(t *testing.T) {
		plan, problems := planMedia(slot, current, mediaInput{PublicID: strPtr("t2")}, false, set)
		assert.Nil(t, plan)
		assert.Contains(t, problems, "cloudinaryThumbnailUrl")
	})

	t.Run("pair beats file", func(t *testing.T) {
		in := mediaInput{URL: strPtr("https://cdn/t2.png"), PublicID: strPtr("t2"), File: &services.MediaUpload{}}
		plan, _ := planMedia(slot, current, in, false, set)
		assert.Equal(t, mediaReplace, plan.action)
	})

	t.Run("file uploads", func(t *testing.T) {
		plan, _ := planMedia(slot, current, mediaInput{File: &services.MediaUpload{}}, false, set)
		assert.Equal(t, mediaUpload, plan.action)
	})
}

func TestParseListString(t *testing.T) {
	assert.Equal(t, []string{"1", "two"}, parseListString(`[1, "two", null]`))
	assert.Equal(t, []string{"[broken"}, parseListString("[broken"))
	assert.Equal(t, []string{}, parseListString("undefined"))
}
