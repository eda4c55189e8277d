package stores

import (
	"bytes"
	"context"
	"encoding/json"
	"io"

	"github.com/kod2ulz/gostart/logr"
	"github.com/kod2ulz/gostart/utils"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/pkg/errors"
)

const JsonContentType = "application/json"

var (
	env              = utils.Env.Helper("MINIO_STORAGE")
	MINIO_USE_SSL    = env.Get("USE_SSL", "true").Bool()
	MINIO_ACCESS_KEY = env.Get("ACCESS_KEY", "invalid-minio-key").String()
	MINIO_SECRET_KEY = env.Get("SECRET_KEY", "invalid-minio-key").String()
	MINIO_ENDPOINT   = env.Get("ENDPOINT", "minio.example.dev").String()
	MINIO_REGION     = env.Get("REGION", "").String()
)

func Minio(log *logr.Logger) (out *MinioClient, err error) {
	refreshConfig()
	client, err := minio.New(MINIO_ENDPOINT, &minio.Options{
		Creds:  credentials.NewStaticV4(MINIO_ACCESS_KEY, MINIO_SECRET_KEY, ""),
		Secure: MINIO_USE_SSL,
		Region: MINIO_REGION,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to initialise minio client")
	}
	log.WithField("endpoint", MINIO_ENDPOINT).Info("initialised minio client")
	return &MinioClient{Client: client, log: log}, nil
}

func refreshConfig() {
	MINIO_USE_SSL = env.Get("USE_SSL", "true").Bool()
	MINIO_ACCESS_KEY = env.Get("ACCESS_KEY", "invalid-minio-key").String()
	MINIO_SECRET_KEY = env.Get("SECRET_KEY", "invalid-minio-key").String()
	MINIO_ENDPOINT = env.Get("ENDPOINT", "minio.example.dev").String()
	MINIO_REGION = env.Get("REGION", "").String()
}

type MinioClient struct {
	log *logr.Logger
	*minio.Client
}

// ObjectReaderFunc expects you to handle the closing yourself
type ObjectReaderFunc func(int64, io.ReadCloser) error

func (c *MinioClient) EnsureBucket(ctx context.Context, bucket string) (err error) {
	var exists bool
	if exists, err = c.BucketExists(ctx, bucket); err != nil {
		return errors.Wrapf(err, "failed to check bucket %s", bucket)
	} else if exists {
		return
	} else if err = c.MakeBucket(ctx, bucket, minio.MakeBucketOptions{Region: MINIO_REGION}); err != nil {
		return errors.Wrapf(err, "failed to create bucket %s", bucket)
	}
	c.log.WithField("bucket", bucket).Info("created bucket")
	return
}

func (c *MinioClient) PutJSON(ctx context.Context, bucket, key string, v any) (err error) {
	var data []byte
	if data, err = json.Marshal(v); err != nil {
		return errors.Wrapf(err, "failed to encode %T for %s/%s", v, bucket, key)
	}
	opts := minio.PutObjectOptions{ContentType: JsonContentType}
	if _, err = c.PutObject(ctx, bucket, key, bytes.NewReader(data), int64(len(data)), opts); err != nil {
		return errors.Wrapf(err, "failed to upload %s/%s", bucket, key)
	}
	return
}

func (c *MinioClient) GetJSON(ctx context.Context, bucket, key string, v any) (err error) {
	return c.StreamObject(ctx, bucket, key, func(size int64, reader io.ReadCloser) error {
		defer reader.Close()
		if e := json.NewDecoder(io.LimitReader(reader, size)).Decode(v); e != nil {
			return errors.Wrapf(e, "failed to decode %s/%s into %T", bucket, key, v)
		}
		return nil
	})
}

func (c *MinioClient) StreamObject(ctx context.Context, bucket, key string, out ObjectReaderFunc) (err error) {
	var reader *minio.Object
	var info minio.ObjectInfo
	if reader, err = c.GetObject(ctx, bucket, key, minio.GetObjectOptions{}); err != nil {
		return errors.Wrapf(err, "error fetching object %s from bucket %s", key, bucket)
	} else if reader == nil {
		return errors.Errorf("object %s/%s returned empty object from storage", bucket, key)
	}
	if info, err = reader.Stat(); err != nil {
		reader.Close()
		return errors.Wrapf(err, "failed to stat object %s/%s", bucket, key)
	} else if info.Size == 0 {
		reader.Close()
		return errors.Errorf("object %s/%s returned empty object from storage", bucket, key)
	}
	return out(info.Size, reader)
}
