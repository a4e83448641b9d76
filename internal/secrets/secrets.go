package secrets

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"

	"docuchat/internal/config"
)

// Bundle is the credential document stored in Secrets Manager.
// Key names follow the deployment's secret layout.
type Bundle struct {
	DBName       string `json:"PROJ-DB-NAME"`
	DBUser       string `json:"PROJ-DB-USER"`
	DBPassword   string `json:"PROJ-DB-PASSWORD"`
	DBHost       string `json:"PROJ-DB-HOST"`
	DBPort       string `json:"PROJ-DB-PORT"`
	OpenAIAPIKey string `json:"PROJ-OPENAI-API-KEY"`
	S3Bucket     string `json:"PROJ-AWS-STORAGE-BUCKET-NAME"`
	AWSRegion    string `json:"PROJ-AWS-REGION"`
}

// Fetch retrieves and decodes the secret bundle. Called once at bootstrap.
func Fetch(ctx context.Context, name, region string) (*Bundle, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load aws config failed: %w", err)
	}

	client := secretsmanager.NewFromConfig(awsCfg)
	out, err := client.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
		SecretId: aws.String(name),
	})
	if err != nil {
		return nil, fmt.Errorf("get secret value failed: %w", err)
	}
	if out.SecretString == nil {
		return nil, fmt.Errorf("secret %q has no string payload", name)
	}

	var bundle Bundle
	if err := json.Unmarshal([]byte(*out.SecretString), &bundle); err != nil {
		return nil, fmt.Errorf("decode secret bundle failed: %w", err)
	}
	return &bundle, nil
}

// Overlay copies non-empty bundle fields onto the config, so the secret
// store wins over TOML/env values when present.
func (b *Bundle) Overlay(cfg *config.Config) {
	if b.DBName != "" {
		cfg.Postgres.DB = b.DBName
	}
	if b.DBUser != "" {
		cfg.Postgres.User = b.DBUser
	}
	if b.DBPassword != "" {
		cfg.Postgres.Password = b.DBPassword
	}
	if b.DBHost != "" {
		cfg.Postgres.Host = b.DBHost
	}
	if b.DBPort != "" {
		if port, err := strconv.Atoi(b.DBPort); err == nil {
			cfg.Postgres.Port = port
		}
	}
	if b.OpenAIAPIKey != "" {
		cfg.LLM.APIKey = b.OpenAIAPIKey
	}
	if b.S3Bucket != "" {
		cfg.S3.Bucket = b.S3Bucket
	}
	if b.AWSRegion != "" {
		cfg.S3.Region = b.AWSRegion
	}
}
