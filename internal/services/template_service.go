// internal/services/template_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/sirupsen/logrus"

	"github.com/dravik/licensing-console/internal/api"
	"github.com/dravik/licensing-console/internal/config"
)

// TemplateLicenses are the license terms a template locks in.
type TemplateLicenses struct {
	CommercialAllowed bool    `json:"commercialAllowed"`
	RemixAllowed      bool    `json:"remixAllowed"`
	AITrainingAllowed bool    `json:"aiTrainingAllowed"`
	RevShare          float64 `json:"revShare"`
	MaxLicenses       float64 `json:"maxLicenses"`
}

// Template is a preset asset the registration form can be filled from.
type Template struct {
	ID          string           `json:"id"`
	Title       string           `json:"title"`
	Description string           `json:"description"`
	ImageURL    string           `json:"imageUrl"`
	Licenses    TemplateLicenses `json:"licenses"`
}

// ImageName is the file name the template image is uploaded under.
func (t Template) ImageName() string {
	return path.Base(t.ImageURL)
}

var builtinTemplates = []Template{
	{
		ID:          "molto-benny",
		Title:       "Molto Benny",
		Description: "PizzaDAO mascot",
		ImageURL:    "/assets/molto-benny.png",
		Licenses: TemplateLicenses{
			CommercialAllowed: true,
			RemixAllowed:      true,
			AITrainingAllowed: true,
			RevShare:          0,
			MaxLicenses:       1,
		},
	},
	{
		ID:          "pepperoni-pie",
		Title:       "Pepperoni Pie",
		Description: "Classic pizza slice on volcano",
		ImageURL:    "/assets/pepperoni-pie.png",
		Licenses: TemplateLicenses{
			CommercialAllowed: true,
			RemixAllowed:      false,
			AITrainingAllowed: true,
			RevShare:          0,
			MaxLicenses:       1,
		},
	},
}

// ErrTemplateImageNotFound is returned when a source has no image for a
// template.
var ErrTemplateImageNotFound = errors.New("template image not found")

// ImageSource loads template images by file name.
type ImageSource interface {
	Fetch(ctx context.Context, name string) (*api.File, error)
}

// DirSource reads template images from a local directory.
type DirSource struct {
	dir string
}

func NewDirSource(dir string) *DirSource {
	return &DirSource{dir: dir}
}

func (s *DirSource) Fetch(ctx context.Context, name string) (*api.File, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, filepath.Base(name)))
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%s: %w", name, ErrTemplateImageNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read template image: %w", err)
	}
	return &api.File{Name: name, ContentType: contentTypeOf(name, "", data), Data: data}, nil
}

// S3Source reads template images from an S3 bucket.
type S3Source struct {
	client s3iface.S3API
	bucket string
	prefix string
}

func NewS3Source(client s3iface.S3API, bucket, prefix string) *S3Source {
	return &S3Source{client: client, bucket: bucket, prefix: prefix}
}

func (s *S3Source) Fetch(ctx context.Context, name string) (*api.File, error) {
	key := path.Join(s.prefix, path.Base(name))
	out, err := s.client.GetObjectWithContext(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var aerr awserr.Error
		if errors.As(err, &aerr) && aerr.Code() == s3.ErrCodeNoSuchKey {
			return nil, fmt.Errorf("%s: %w", key, ErrTemplateImageNotFound)
		}
		return nil, fmt.Errorf("failed to get template image from S3: %w", err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read template image: %w", err)
	}
	return &api.File{
		Name:        path.Base(name),
		ContentType: contentTypeOf(name, aws.StringValue(out.ContentType), data),
		Data:        data,
	}, nil
}

type TemplateService struct {
	templates []Template
	source    ImageSource
}

func NewTemplateService(source ImageSource) *TemplateService {
	return &TemplateService{templates: builtinTemplates, source: source}
}

// NewTemplateServiceFromConfig reads images from S3 when a template bucket
// is configured and from the templates directory otherwise.
func NewTemplateServiceFromConfig(cfg *config.Config) (*TemplateService, error) {
	if cfg.AWS.TemplateBucket == "" {
		return NewTemplateService(NewDirSource(cfg.Templates.Dir)), nil
	}

	awsConfig := &aws.Config{Region: aws.String(cfg.AWS.Region)}
	if cfg.AWS.AccessKeyID != "" {
		awsConfig.Credentials = credentials.NewStaticCredentials(
			cfg.AWS.AccessKeyID,
			cfg.AWS.SecretAccessKey,
			"",
		)
	}

	// Create AWS session
	sess, err := session.NewSession(awsConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS session: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"bucket": cfg.AWS.TemplateBucket,
		"prefix": cfg.AWS.TemplatePrefix,
	}).Info("Template images served from S3")

	return NewTemplateService(NewS3Source(s3.New(sess), cfg.AWS.TemplateBucket, cfg.AWS.TemplatePrefix)), nil
}

// Templates lists the preset assets in display order.
func (s *TemplateService) Templates() []Template {
	out := make([]Template, len(s.templates))
	copy(out, s.templates)
	return out
}

// Template looks a preset up by id.
func (s *TemplateService) Template(id string) (Template, bool) {
	for _, t := range s.templates {
		if t.ID == id {
			return t, true
		}
	}
	return Template{}, false
}

// Image loads the image attached when registering from t.
func (s *TemplateService) Image(ctx context.Context, t Template) (*api.File, error) {
	if t.ImageURL == "" {
		return nil, nil
	}
	return s.source.Fetch(ctx, t.ImageName())
}
