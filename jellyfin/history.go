package jellyfin

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// HistoryEntry is one watch-history record. Entries are not full media
// objects; Source resolves the underlying item when it still exists.
type HistoryEntry struct {
	srv *Server

	HistoryKey string
	RatingKey  int64
	Key        string
	Title      string
	Type       string
	ViewedAt   time.Time
	AccountID  int64
	DeviceID   int64
}

// HistoryOptions narrows a history listing. Zero values are ignored.
type HistoryOptions struct {
	// MinDate keeps only entries viewed at or after the given time.
	MinDate time.Time
	// ItemRatingKey keeps only entries for one item.
	ItemRatingKey int64
}

// History returns watch-history entries, most recent first.
func (s *Server) History(ctx context.Context, opts HistoryOptions) ([]*HistoryEntry, error) {
	params := url.Values{}
	params.Set("sort", "viewedAt:desc")
	if !opts.MinDate.IsZero() {
		params.Set("viewedAt>", strconv.FormatInt(opts.MinDate.Unix(), 10))
	}
	if opts.ItemRatingKey != 0 {
		params.Set("metadataItemID", strconv.FormatInt(opts.ItemRatingKey, 10))
	}

	c, err := s.queryContainer(ctx, http.MethodGet, "/status/sessions/history/all", params, nil)
	if err != nil {
		return nil, err
	}
	entries := make([]*HistoryEntry, 0, len(c.Children))
	for _, entry := range c.elements() {
		el := entry.el
		entries = append(entries, &HistoryEntry{
			srv:        s,
			HistoryKey: el.HistoryKey,
			RatingKey:  atoi64(el.RatingKey),
			Key:        el.Key,
			Title:      el.Title,
			Type:       el.Type,
			ViewedAt:   toTime(el.ViewedAt),
			AccountID:  atoi64(el.AccountID),
			DeviceID:   atoi64(el.DeviceID),
		})
	}
	return entries, nil
}

// Source fetches the media object this entry refers to. Returns ErrNotFound
// when the item has since been deleted from the library.
func (h *HistoryEntry) Source(ctx context.Context) (Object, error) {
	if h.Key == "" {
		return nil, fmt.Errorf("%w: history entry %q carries no key", ErrNotFound, h.Title)
	}
	return h.srv.FetchItem(ctx, h.Key)
}

// Delete removes this entry from the watch history.
func (h *HistoryEntry) Delete(ctx context.Context) error {
	if h.HistoryKey == "" {
		return fmt.Errorf("%w: history entry %q carries no history key", ErrBadRequest, h.Title)
	}
	return h.srv.exec(ctx, http.MethodDelete, h.HistoryKey, nil)
}
