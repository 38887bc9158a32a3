package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/rpupo63/portfolio-site-backend/errs"
	"github.com/rpupo63/portfolio-site-backend/models"
	"github.com/rpupo63/portfolio-site-backend/services"
)

const (
	maxMultipartBody = 110 << 20
	maxJSONBody      = 1 << 20
	multipartMemory  = 32 << 20
)

type requestSource string

const (
	sourceJSON      requestSource = "json"
	sourceMultipart requestSource = "multipart"
)

// fieldReader reads typed fields from a decoded body. A nil result means
// the field was not supplied.
type fieldReader interface {
	text(name string) (*string, error)
	list(name string) (*[]string, error)
	flag(name string) (bool, error)
}

// writeRequest is a project or skill write body after decoding.
type writeRequest struct {
	source requestSource
	fields fieldReader
	files  map[string][]*multipart.FileHeader
	opened []multipart.File
}

// readWriteRequest decodes a JSON, multipart or urlencoded body.
func readWriteRequest(w http.ResponseWriter, r *http.Request) (*writeRequest, error) {
	contentType := r.Header.Get("Content-Type")
	mediaType, _, err := mime.ParseMediaType(contentType)
	if contentType != "" && err != nil {
		return nil, errs.NewInvalidContentTypeError(contentType)
	}

	switch mediaType {
	case "multipart/form-data":
		r.Body = http.MaxBytesReader(w, r.Body, maxMultipartBody)
		if err := r.ParseMultipartForm(multipartMemory); err != nil {
			return nil, bodyError(err, maxMultipartBody)
		}
		return &writeRequest{
			source: sourceMultipart,
			fields: formFields(r.MultipartForm.Value),
			files:  r.MultipartForm.File,
		}, nil

	case "application/x-www-form-urlencoded":
		r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
		if err := r.ParseForm(); err != nil {
			return nil, bodyError(err, maxJSONBody)
		}
		return &writeRequest{source: sourceMultipart, fields: formFields(r.PostForm)}, nil

	case "", "application/json":
		r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
		body, err := io.ReadAll(r.Body)
		if err != nil {
			return nil, bodyError(err, maxJSONBody)
		}
		fields := jsonFields{}
		if len(bytes.TrimSpace(body)) > 0 {
			if err := json.Unmarshal(body, &fields); err != nil {
				return nil, errs.NewInvalidJSONError(err)
			}
		}
		return &writeRequest{source: sourceJSON, fields: fields}, nil

	default:
		return nil, errs.NewInvalidContentTypeError(contentType)
	}
}

func bodyError(err error, limit int64) error {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) || strings.Contains(err.Error(), "request body too large") {
		return errs.NewMaxBodySizeExceededError("body", limit)
	}
	return errs.NewMalformedPayloadError("body", err)
}

// Close releases any files opened for upload.
func (req *writeRequest) Close() {
	for _, f := range req.opened {
		f.Close()
	}
	req.opened = nil
}

// file opens the legacy upload in field name and checks it against the rule
// for kind. It returns nil when no file was sent.
func (req *writeRequest) file(name string, kind services.MediaKind) (*services.MediaUpload, error) {
	headers := req.files[name]
	if len(headers) == 0 {
		return nil, nil
	}
	header := headers[0]

	f, err := header.Open()
	if err != nil {
		return nil, errs.NewMalformedPayloadError(name, err)
	}
	req.opened = append(req.opened, f)

	upload := &services.MediaUpload{
		Kind:        kind,
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Body:        f,
	}
	if err := services.RuleFor(kind).Check(name, upload); err != nil {
		return nil, err
	}
	return upload, nil
}

type jsonFields map[string]json.RawMessage

func (f jsonFields) text(name string) (*string, error) {
	raw, ok := f[name]
	if !ok {
		return nil, nil
	}
	value, isScalar := jsonScalar(raw)
	if !isScalar {
		return nil, errs.NewInvalidFieldError(name, "must be a string")
	}
	return &value, nil
}

func (f jsonFields) list(name string) (*[]string, error) {
	raw, ok := f[name]
	if !ok {
		return nil, nil
	}

	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var items []json.RawMessage
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return nil, errs.NewInvalidFieldError(name, "must be a list of strings")
		}
		out := make([]string, 0, len(items))
		for _, item := range items {
			value, isScalar := jsonScalar(item)
			if !isScalar {
				return nil, errs.NewInvalidFieldError(name, "must be a list of strings")
			}
			if !droppedListValue(value) {
				out = append(out, value)
			}
		}
		return &out, nil
	}

	value, isScalar := jsonScalar(trimmed)
	if !isScalar {
		return nil, errs.NewInvalidFieldError(name, "must be a list of strings")
	}
	out := parseListString(value)
	return &out, nil
}

func (f jsonFields) flag(name string) (bool, error) {
	raw, ok := f[name]
	if !ok {
		return false, nil
	}
	value, isScalar := jsonScalar(raw)
	if !isScalar {
		return false, errs.NewInvalidFieldError(name, "must be a boolean")
	}
	return truthy(value), nil
}

// jsonScalar renders a JSON string, number, bool or null as text.
func jsonScalar(raw json.RawMessage) (string, bool) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return "", true
	}
	switch trimmed[0] {
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return "", false
		}
		return s, true
	case '[', '{':
		return "", false
	default:
		return string(trimmed), true
	}
}

// formFields reads multipart and urlencoded values.
type formFields map[string][]string

var indexedKey = regexp.MustCompile(`^(.+)\[([^\]]*)\]$`)

func (f formFields) text(name string) (*string, error) {
	values, ok := f[name]
	if !ok || len(values) == 0 || values[0] == "undefined" {
		return nil, nil
	}
	value := values[0]
	if value == "null" {
		value = ""
	}
	return &value, nil
}

// list rebuilds name[N] keys in ascending N. Non-numeric indices are
// skipped. Without indexed keys a bare name value is parsed as a
// stringified JSON list or a single element.
func (f formFields) list(name string) (*[]string, error) {
	type indexed struct {
		index int
		value string
	}
	var items []indexed
	found := false

	for key, values := range f {
		m := indexedKey.FindStringSubmatch(key)
		if m == nil || m[1] != name {
			continue
		}
		found = true
		index, err := strconv.Atoi(m[2])
		if err != nil || index < 0 || len(values) == 0 {
			continue
		}
		items = append(items, indexed{index: index, value: values[0]})
	}

	if found {
		sort.Slice(items, func(i, j int) bool { return items[i].index < items[j].index })
		out := make([]string, 0, len(items))
		for _, item := range items {
			if !droppedListValue(item.value) {
				out = append(out, item.value)
			}
		}
		return &out, nil
	}

	values, ok := f[name]
	if !ok {
		return nil, nil
	}
	out := []string{}
	for _, value := range values {
		out = append(out, parseListString(value)...)
	}
	return &out, nil
}

func (f formFields) flag(name string) (bool, error) {
	values := f[name]
	if len(values) == 0 {
		return false, nil
	}
	return truthy(values[0]), nil
}

// parseListString accepts a stringified JSON list or a single value.
func parseListString(s string) []string {
	s = strings.TrimSpace(s)
	if droppedListValue(s) {
		return []string{}
	}
	if strings.HasPrefix(s, "[") {
		var items []any
		if err := json.Unmarshal([]byte(s), &items); err == nil {
			out := make([]string, 0, len(items))
			for _, item := range items {
				if item == nil {
					continue
				}
				var value string
				switch v := item.(type) {
				case string:
					value = v
				default:
					b, _ := json.Marshal(v)
					value = string(b)
				}
				if !droppedListValue(value) {
					out = append(out, value)
				}
			}
			return out
		}
	}
	return []string{s}
}

func droppedListValue(v string) bool {
	v = strings.TrimSpace(v)
	return v == "" || v == "undefined" || v == "null"
}

func truthy(v string) bool {
	v = strings.TrimSpace(strings.ToLower(v))
	return v == "true" || v == "1"
}

// mediaInput is what the request says about one media slot.
type mediaInput struct {
	URL      *string
	PublicID *string
	Remove   bool
	File     *services.MediaUpload
}

func (req *writeRequest) media(slot mediaSlot) (mediaInput, error) {
	var (
		in  mediaInput
		err error
	)
	if in.URL, err = req.fields.text(slot.urlField); err != nil {
		return in, err
	}
	if in.PublicID, err = req.fields.text(slot.idField); err != nil {
		return in, err
	}
	if slot.removeFlag != "" {
		if in.Remove, err = req.fields.flag(slot.removeFlag); err != nil {
			return in, err
		}
	}
	if in.File, err = req.file(slot.fileField, slot.kind); err != nil {
		return in, err
	}
	if in.File != nil {
		in.File.Folder = slot.folder
	}
	return in, nil
}

// projectInput is the canonical project write.
type projectInput struct {
	Title       *string
	Description *string
	GithubLink  *string
	DeployedURL *string
	Duration    *string
	Challenges  *string
	Features    *[]string
	Tools       *[]string
	Video       mediaInput
	Thumbnail   mediaInput
}

func (req *writeRequest) project(slots projectSlots) (projectInput, error) {
	var (
		in  projectInput
		err error
	)
	texts := []struct {
		name string
		dst  **string
	}{
		{"title", &in.Title},
		{"description", &in.Description},
		{"githubLink", &in.GithubLink},
		{"deployedUrl", &in.DeployedURL},
		{"duration", &in.Duration},
		{"challenges", &in.Challenges},
	}
	for _, t := range texts {
		if *t.dst, err = req.fields.text(t.name); err != nil {
			return in, err
		}
	}
	if in.Features, err = req.fields.list("features"); err != nil {
		return in, err
	}
	if in.Tools, err = req.fields.list("tools"); err != nil {
		return in, err
	}
	if in.Video, err = req.media(slots.video); err != nil {
		return in, err
	}
	if in.Thumbnail, err = req.media(slots.thumbnail); err != nil {
		return in, err
	}
	return in, nil
}

// applyTo copies the supplied non-media fields onto p.
func (in projectInput) applyTo(p *models.Project) {
	setString(&p.Title, in.Title)
	setString(&p.Description, in.Description)
	setString(&p.GithubLink, in.GithubLink)
	setString(&p.DeployedURL, in.DeployedURL)
	setString(&p.Duration, in.Duration)
	setString(&p.Challenges, in.Challenges)
	if in.Features != nil {
		p.Features = *in.Features
	}
	if in.Tools != nil {
		p.Tools = *in.Tools
	}
}

// skillInput is the canonical skill write.
type skillInput struct {
	Name   *string
	Topics *[]string
	Image  mediaInput
}

func (req *writeRequest) skill(slot mediaSlot) (skillInput, error) {
	var (
		in  skillInput
		err error
	)
	if in.Name, err = req.fields.text("name"); err != nil {
		return in, err
	}
	if in.Topics, err = req.fields.list("topics"); err != nil {
		return in, err
	}
	if in.Image, err = req.media(slot); err != nil {
		return in, err
	}
	return in, nil
}

func (in skillInput) applyTo(s *models.Skill) {
	setString(&s.Name, in.Name)
	if in.Topics != nil {
		s.Topics = *in.Topics
	}
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}
