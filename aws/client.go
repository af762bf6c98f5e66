package aws

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
	"github.com/aws/aws-sdk-go/service/s3/s3manager/s3manageriface"
	"github.com/rs/zerolog/log"

	"github.com/gonzacha/nordia-whatsapp-ia/drafts"
)

const draftsPrefix = "drafts/"

type Client struct {
	bucket   string
	region   string
	uploader s3manageriface.UploaderAPI
}

func NewClient(region, bucket string) (*Client, error) {
	sess, err := session.NewSession(&aws.Config{
		Region: aws.String(region),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS session: %w", err)
	}

	log.Info().
		Str("bucket", bucket).
		Str("region", region).
		Msg("AWS session created successfully")

	return NewClientWithUploader(region, bucket, s3manager.NewUploader(sess)), nil
}

func NewClientWithUploader(region, bucket string, uploader s3manageriface.UploaderAPI) *Client {
	return &Client{
		bucket:   bucket,
		region:   region,
		uploader: uploader,
	}
}

// DraftKey is the object key a draft is archived under.
func DraftKey(d drafts.Draft) string {
	return fmt.Sprintf("%s%s.json", draftsPrefix, d.Ref)
}

// ArchiveDraft uploads the draft as a JSON document.
func (c *Client) ArchiveDraft(ctx context.Context, d drafts.Draft) error {
	body, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("failed to marshal draft: %w", err)
	}

	key := DraftKey(d)

	log.Info().
		Str("bucket", c.bucket).
		Str("key", key).
		Int("content_size", len(body)).
		Msg("Starting S3 upload")

	result, err := c.uploader.UploadWithContext(ctx, &s3manager.UploadInput{
		Bucket:      aws.String(c.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		log.Error().
			Err(err).
			Str("bucket", c.bucket).
			Str("region", c.region).
			Str("key", key).
			Msg("S3 upload failed")
		return fmt.Errorf("failed to upload draft to S3: %w", err)
	}

	log.Info().
		Str("s3_location", result.Location).
		Str("key", key).
		Int64("draft_id", d.ID).
		Msg("Draft archived to S3")

	return nil
}
