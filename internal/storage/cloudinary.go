package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/fathima-sithara/social-service/internal/media"
)

// uploadAPI is the part of the Cloudinary SDK the store uses.
type uploadAPI interface {
	Upload(ctx context.Context, file interface{}, params uploader.UploadParams) (*uploader.UploadResult, error)
	Destroy(ctx context.Context, params uploader.DestroyParams) (*uploader.DestroyResult, error)
}

type BreakerConfig struct {
	MaxFailures uint32
	Interval    time.Duration
	Timeout     time.Duration
}

// CloudinaryStore talks to the remote media host. Calls are not retried.
// Uploads and destroys each have a breaker: after MaxFailures consecutive
// transport failures it opens and calls fail fast until Timeout elapses.
// Rejections reported by the host in a response body are not transport
// failures and never trip a breaker.
type CloudinaryStore struct {
	api       uploadAPI
	uploadCB  *gobreaker.CircuitBreaker
	destroyCB *gobreaker.CircuitBreaker
	log       *zap.Logger
}

func NewCloudinaryStore(cloudName, apiKey, apiSecret string, bc BreakerConfig, logger *zap.Logger) (*CloudinaryStore, error) {
	if cloudName == "" || apiKey == "" || apiSecret == "" {
		return nil, errors.New("cloudinary credentials are incomplete")
	}
	cld, err := cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, err
	}
	return newCloudinaryStore(&cld.Upload, bc, logger), nil
}

func newCloudinaryStore(api uploadAPI, bc BreakerConfig, logger *zap.Logger) *CloudinaryStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	if bc.MaxFailures == 0 {
		bc.MaxFailures = 5
	}
	if bc.Timeout == 0 {
		bc.Timeout = 30 * time.Second
	}
	return &CloudinaryStore{
		api:       api,
		uploadCB:  newBreaker("cloudinary-upload", bc, logger),
		destroyCB: newBreaker("cloudinary-destroy", bc, logger),
		log:       logger,
	}
}

func newBreaker(name string, bc BreakerConfig, logger *zap.Logger) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Interval:    bc.Interval,
		Timeout:     bc.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= bc.MaxFailures
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Warn("circuit breaker state", zap.String("name", name), zap.String("from", from.String()), zap.String("to", to.String()))
		},
	})
}

func (s *CloudinaryStore) Upload(ctx context.Context, r io.Reader, p media.UploadParams) (*media.UploadResult, error) {
	v, err := s.uploadCB.Execute(func() (interface{}, error) {
		res, err := s.api.Upload(ctx, r, uploader.UploadParams{
			Folder:       p.Folder,
			ResourceType: string(p.Category),
		})
		if err != nil {
			return nil, err
		}
		if res == nil {
			return nil, errors.New("cloudinary: empty upload response")
		}
		return res, nil
	})
	if err != nil {
		return nil, err
	}
	res := v.(*uploader.UploadResult)
	if res.Error.Message != "" {
		return nil, fmt.Errorf("cloudinary: %s", res.Error.Message)
	}
	return &media.UploadResult{
		PublicID: res.PublicID,
		AssetID:  res.AssetID,
		Version:  fmt.Sprint(res.Version),
		URL:      res.SecureURL,
		Bytes:    int64(res.Bytes),
		Format:   res.Format,
	}, nil
}

// Destroy reports the host's result verbatim. "not found" is a result, not
// an error, and does not count against the breaker.
func (s *CloudinaryStore) Destroy(ctx context.Context, publicID string, category media.ResourceCategory) (*media.DestroyResult, error) {
	v, err := s.destroyCB.Execute(func() (interface{}, error) {
		res, err := s.api.Destroy(ctx, uploader.DestroyParams{
			PublicID:     publicID,
			ResourceType: string(category),
		})
		if err != nil {
			return nil, err
		}
		if res == nil {
			return nil, errors.New("cloudinary: empty destroy response")
		}
		return res, nil
	})
	if err != nil {
		return nil, err
	}
	res := v.(*uploader.DestroyResult)
	if res.Result == "" && res.Error.Message != "" {
		return &media.DestroyResult{Result: res.Error.Message}, nil
	}
	return &media.DestroyResult{Result: res.Result}, nil
}

// State exposes the breaker states for health reporting.
func (s *CloudinaryStore) State() map[string]string {
	return map[string]string{
		"upload":  s.uploadCB.State().String(),
		"destroy": s.destroyCB.State().String(),
	}
}
