package ledger

import (
	"context"
	"fmt"
	"net/url"

	"github.com/gorilla/websocket"

	"github.com/openveritas/cybercourt/internal/model"
)

// StreamSource subscribes to the ledger service over a websocket. The
// service sends the full current record set as a JSON array on every
// change, scoped by app id and install identity.
type StreamSource struct {
	conn *websocket.Conn
}

// DialStream opens the subscription. streamURL is a ws:// or wss://
// endpoint.
func DialStream(ctx context.Context, streamURL, appID, identity string) (*StreamSource, error) {
	u, err := url.Parse(streamURL)
	if err != nil {
		return nil, fmt.Errorf("parse ledger stream url: %w", err)
	}
	q := u.Query()
	q.Set("app_id", appID)
	q.Set("identity", identity)
	u.RawQuery = q.Encode()

	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, u.String(), nil)
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("dial ledger stream: %w (status %d)", err, resp.StatusCode)
		}
		return nil, fmt.Errorf("dial ledger stream: %w", err)
	}
	return &StreamSource{conn: conn}, nil
}

// Next blocks until the service pushes the next full snapshot.
func (s *StreamSource) Next(ctx context.Context) ([]model.CaseRecord, error) {
	type result struct {
		records []model.CaseRecord
		err     error
	}
	ch := make(chan result, 1)
	go func() {
		var records []model.CaseRecord
		err := s.conn.ReadJSON(&records)
		ch <- result{records: records, err: err}
	}()
	select {
	case <-ctx.Done():
		_ = s.conn.Close()
		return nil, ctx.Err()
	case r := <-ch:
		if r.err != nil {
			return nil, fmt.Errorf("read ledger snapshot: %w", r.err)
		}
		if r.records == nil {
			r.records = []model.CaseRecord{}
		}
		return r.records, nil
	}
}

// Close tears down the subscription for clean shutdown.
func (s *StreamSource) Close() error {
	return s.conn.Close()
}
