package media

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// Manager owns the media lifecycle: validated uploads to the remote store
// and best-effort deletion of the objects entities point at. It keeps no
// mutable state and is safe for concurrent use.
type Manager struct {
	cfg      Config
	allowed  map[string]struct{}
	store    Store
	log      *zap.Logger
	observer Observer
}

type Option func(*Manager)

func WithObserver(o Observer) Option {
	return func(m *Manager) {
		if o != nil {
			m.observer = o
		}
	}
}

func NewManager(cfg Config, store Store, log *zap.Logger, opts ...Option) *Manager {
	if log == nil {
		log = zap.NewNop()
	}
	def := DefaultConfig()
	if cfg.StoryCeiling <= 0 {
		cfg.StoryCeiling = def.StoryCeiling
	}
	if cfg.ImageCeiling <= 0 {
		cfg.ImageCeiling = def.ImageCeiling
	}
	if cfg.VideoCeiling <= 0 {
		cfg.VideoCeiling = def.VideoCeiling
	}
	if len(cfg.AllowedTypes) == 0 {
		cfg.AllowedTypes = def.AllowedTypes
	}
	cfg.AllowedTypes = append([]string(nil), cfg.AllowedTypes...)

	allowed := make(map[string]struct{}, len(cfg.AllowedTypes))
	for _, t := range cfg.AllowedTypes {
		allowed[normalizeMime(t)] = struct{}{}
	}
	m := &Manager{cfg: cfg, allowed: allowed, store: store, log: log, observer: nopObserver{}}
	for _, o := range opts {
		o(m)
	}
	return m
}

func (m *Manager) Limits() Limits {
	return Limits{
		Story:        m.cfg.StoryCeiling,
		Image:        m.cfg.ImageCeiling,
		Video:        m.cfg.VideoCeiling,
		AllowedTypes: append([]string(nil), m.cfg.AllowedTypes...),
	}
}

// Validate checks type and declared size without touching the store.
func (m *Manager) Validate(mimeType string, size int64, story bool) (SizeClass, error) {
	mt := normalizeMime(mimeType)
	if _, ok := m.allowed[mt]; !ok {
		return "", &ValidationError{Kind: UnsupportedType, MimeType: mimeType, Allowed: m.Limits().AllowedTypes}
	}
	ceiling, class := m.cfg.ceiling(mt, story)
	if size > ceiling {
		return "", &ValidationError{Kind: TooLarge, MimeType: mt, Size: size, Ceiling: ceiling}
	}
	return class, nil
}

// Upload validates f and sends it to the store. The returned reference is
// not persisted; that is the owning entity's job.
func (m *Manager) Upload(ctx context.Context, f File) (*Reference, error) {
	class, err := m.Validate(f.MimeType, f.Size, f.Story)
	if err != nil {
		return nil, err
	}
	if f.Data == nil {
		return nil, &StoreError{Op: "upload", Cause: fmt.Errorf("no file data")}
	}

	category := CategoryForMime(f.MimeType)
	folder := FolderFor(category)
	res, err := m.store.Upload(ctx, f.Data, UploadParams{Category: category, Folder: folder})
	if err == nil && (res == nil || res.URL == "") {
		err = fmt.Errorf("store returned no delivery url")
	}
	m.observer.UploadFinished(category, err)
	if err != nil {
		m.log.Error("media upload failed",
			zap.String("filename", f.Filename),
			zap.String("resource_category", string(category)),
			zap.Int64("size", f.Size),
			zap.Error(err))
		return nil, &StoreError{Op: "upload", Cause: err}
	}

	m.log.Info("media uploaded",
		zap.String("public_id", res.PublicID),
		zap.String("resource_category", string(category)),
		zap.String("folder", folder),
		zap.Int64("bytes", res.Bytes))

	return &Reference{
		URL:       res.URL,
		PublicID:  res.PublicID,
		AssetID:   res.AssetID,
		Version:   res.Version,
		Category:  category,
		SizeClass: class,
	}, nil
}

// ResolveIdentifier returns the public id encoded in a delivery URL, or ""
// when the URL does not belong to the configured host.
func (m *Manager) ResolveIdentifier(rawURL string) string {
	return ResolvePublicID(rawURL, m.cfg.Domain)
}

// ExternalReference builds a reference for media uploaded outside this service.
// Only the public id can be recovered; asset id and version stay empty.
func (m *Manager) ExternalReference(rawURL string, category ResourceCategory) *Reference {
	if category == "" {
		category = CategoryFromURL(rawURL)
	}
	return &Reference{
		URL:      rawURL,
		PublicID: m.ResolveIdentifier(rawURL),
		Category: category,
	}
}
