package repository

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"path"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/gridfs"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ImageBucket is the GridFS bucket listing photos are stored in.
const ImageBucket = "listing-images"

// ImageRepository stores listing photos in GridFS under their storage key.
type ImageRepository struct {
	DB *mongo.Database
}

func NewImageRepository(client *mongo.Client, dbName string) *ImageRepository {
	return &ImageRepository{DB: client.Database(dbName)}
}

func (r *ImageRepository) bucket(ctx context.Context) (*gridfs.Bucket, error) {
	bucket, err := gridfs.NewBucket(r.DB, options.GridFSBucket().SetName(ImageBucket))
	if err != nil {
		return nil, err
	}
	if deadline, ok := ctx.Deadline(); ok {
		if err := bucket.SetWriteDeadline(deadline); err != nil {
			return nil, err
		}
		if err := bucket.SetReadDeadline(deadline); err != nil {
			return nil, err
		}
	}
	return bucket, nil
}

func (r *ImageRepository) Upload(ctx context.Context, key string, body io.Reader, contentType string) error {
	bucket, err := r.bucket(ctx)
	if err != nil {
		return fmt.Errorf("ImageRepository.Upload: %w", err)
	}

	opts := options.GridFSUpload().SetMetadata(bson.D{{Key: "contentType", Value: contentType}})
	if _, err := bucket.UploadFromStream(key, body, opts); err != nil {
		return fmt.Errorf("ImageRepository.Upload: %w", err)
	}
	return nil
}

// Delete removes every revision stored under key.
func (r *ImageRepository) Delete(ctx context.Context, key string) error {
	bucket, err := r.bucket(ctx)
	if err != nil {
		return fmt.Errorf("ImageRepository.Delete: %w", err)
	}

	cursor, err := bucket.Find(bson.D{{Key: "filename", Value: key}})
	if err != nil {
		return fmt.Errorf("ImageRepository.Delete: find: %w", err)
	}
	var files []struct {
		ID primitive.ObjectID `bson:"_id"`
	}
	if err := cursor.All(ctx, &files); err != nil {
		return fmt.Errorf("ImageRepository.Delete: decode: %w", err)
	}
	if len(files) == 0 {
		return fmt.Errorf("ImageRepository.Delete: %s: %w", key, ErrNotFound)
	}

	for _, f := range files {
		if err := bucket.Delete(f.ID); err != nil {
			return fmt.Errorf("ImageRepository.Delete: %w", err)
		}
	}
	return nil
}

// Download returns the newest revision stored under key and its content type.
func (r *ImageRepository) Download(ctx context.Context, key string) ([]byte, string, error) {
	bucket, err := r.bucket(ctx)
	if err != nil {
		return nil, "", fmt.Errorf("ImageRepository.Download: %w", err)
	}

	stream, err := bucket.OpenDownloadStreamByName(key)
	if err != nil {
		if errors.Is(err, gridfs.ErrFileNotFound) {
			return nil, "", fmt.Errorf("ImageRepository.Download: %s: %w", key, ErrNotFound)
		}
		return nil, "", fmt.Errorf("ImageRepository.Download: %w", err)
	}
	defer stream.Close()

	data, err := io.ReadAll(stream)
	if err != nil {
		return nil, "", fmt.Errorf("ImageRepository.Download: read: %w", err)
	}

	contentType := ""
	if f := stream.GetFile(); f != nil && f.Metadata != nil {
		if v, err := f.Metadata.LookupErr("contentType"); err == nil {
			contentType, _ = v.StringValueOK()
		}
	}
	if contentType == "" {
		contentType = ContentTypeForKey(key)
	}
	return data, contentType, nil
}

// ContentTypeForKey guesses a content type from the key's extension.
func ContentTypeForKey(key string) string {
	if ct := mime.TypeByExtension(path.Ext(key)); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
