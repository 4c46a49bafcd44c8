package media

import (
	"context"

	"go.uber.org/zap"
)

type Strategy string

const (
	StrategyStoredID   Strategy = "stored_id"
	StrategyURLDerived Strategy = "url_derived"
	StrategyFilename   Strategy = "filename"
)

// Attempt is one destroy call made while deleting a reference.
type Attempt struct {
	Strategy Strategy `json:"strategy"`
	PublicID string   `json:"public_id"`
	Result   string   `json:"result,omitempty"`
	Error    string   `json:"error,omitempty"`
}

// DeletionOutcome is the terminal result of Delete. OK is false when every
// strategy failed; callers log it and carry on.
type DeletionOutcome struct {
	OK       bool      `json:"ok"`
	Attempts []Attempt `json:"attempts,omitempty"`
}

// filenameFolders are the folder prefixes tried, in order, when only the
// bare filename of an object is known.
var filenameFolders = map[ResourceCategory][]string{
	CategoryImage: {"", "images/", "upload/"},
	CategoryVideo: {"", "videos/"},
}

// Delete removes the remote object behind ref. It never fails: strategies
// run in order until one reports ok, and every attempt is recorded in the
// outcome.
//
// Order: stored public id, URL-derived id, then filename guesses across
// the known folders. Videos always try both the stored and the
// URL-derived id. An id is destroyed at most once per call.
func (m *Manager) Delete(ctx context.Context, ref Reference) DeletionOutcome {
	if ref.IsZero() {
		return DeletionOutcome{OK: true}
	}
	category := ref.Category
	if category == "" {
		category = CategoryFromURL(ref.URL)
	}

	d := &deletion{m: m, ctx: ctx, category: category, tried: map[string]bool{}}
	derived := m.ResolveIdentifier(ref.URL)

	var ok bool
	if category == CategoryVideo {
		byID := d.try(StrategyStoredID, ref.PublicID)
		byURL := d.try(StrategyURLDerived, derived)
		ok = byID || byURL
	} else {
		ok = d.try(StrategyStoredID, ref.PublicID) || d.try(StrategyURLDerived, derived)
	}

	if !ok {
		if name := Filename(ref.URL); name != "" {
			for _, folder := range filenameFolders[category] {
				if d.try(StrategyFilename, folder+name) {
					ok = true
					break
				}
			}
		}
	}

	out := DeletionOutcome{OK: ok, Attempts: d.attempts}
	m.observer.DeletionFinished(category, ok, len(d.attempts))
	if ok {
		m.log.Info("media deleted",
			zap.String("url", ref.URL),
			zap.String("resource_category", string(category)),
			zap.Int("attempts", len(d.attempts)))
	} else {
		m.log.Warn("media deletion failed, remote object may be orphaned",
			zap.String("url", ref.URL),
			zap.String("public_id", ref.PublicID),
			zap.String("resource_category", string(category)),
			zap.Int("attempts", len(d.attempts)))
	}
	return out
}

type deletion struct {
	m        *Manager
	ctx      context.Context
	category ResourceCategory
	tried    map[string]bool
	attempts []Attempt
}

// try destroys publicID unless it is empty or was already attempted.
func (d *deletion) try(s Strategy, publicID string) bool {
	if publicID == "" || d.tried[publicID] {
		return false
	}
	d.tried[publicID] = true

	a := Attempt{Strategy: s, PublicID: publicID}
	res, err := d.m.store.Destroy(d.ctx, publicID, d.category)
	switch {
	case err != nil:
		a.Error = err.Error()
	case res == nil:
		a.Error = "empty destroy response"
	default:
		a.Result = res.Result
	}
	d.attempts = append(d.attempts, a)

	d.m.log.Debug("media destroy attempt",
		zap.String("strategy", string(s)),
		zap.String("public_id", publicID),
		zap.String("resource_category", string(d.category)),
		zap.String("result", a.Result),
		zap.String("error", a.Error))
	return a.Result == ResultOK
}
