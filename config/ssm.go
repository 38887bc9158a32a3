package config

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/rs/zerolog/log"
)

// WithSSMParameters fills keys that are not already set from the AWS SSM
// Parameter Store path named by SSM_PARAMETER_PATH. The last path segment of
// each parameter becomes the key, e.g. /portfolio/prod/jwt_secret -> JWT_SECRET.
func WithSSMParameters(ctx context.Context, cfg map[string]string) error {
	parameterPath := GetString(cfg, "SSM_PARAMETER_PATH", "")
	if parameterPath == "" {
		return nil
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return fmt.Errorf("load aws config: %w", err)
	}
	return loadSSMParameters(ctx, ssm.NewFromConfig(awsCfg), parameterPath, cfg)
}

func loadSSMParameters(ctx context.Context, client ssm.GetParametersByPathAPIClient, parameterPath string, cfg map[string]string) error {
	paginator := ssm.NewGetParametersByPathPaginator(client, &ssm.GetParametersByPathInput{
		Path:           aws.String(parameterPath),
		Recursive:      aws.Bool(true),
		WithDecryption: aws.Bool(true),
	})

	loaded := 0
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return fmt.Errorf("get parameters by path %s: %w", parameterPath, err)
		}
		for _, p := range page.Parameters {
			key := strings.ToUpper(path.Base(aws.ToString(p.Name)))
			if _, set := cfg[key]; set {
				continue
			}
			cfg[key] = aws.ToString(p.Value)
			loaded++
		}
	}

	log.Info().Str("path", parameterPath).Int("count", loaded).Msg("Loaded parameters from SSM")
	return nil
}
