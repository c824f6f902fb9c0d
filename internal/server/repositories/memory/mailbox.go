package memory

import (
	"context"
	"time"

	"github.com/dmitrijs2005/imprint/internal/common"
	"github.com/dmitrijs2005/imprint/internal/server/models"
)

type ReportsRepository struct {
	s *Store
}

func (r *ReportsRepository) Create(ctx context.Context, report *models.Report) (*models.Report, error) {
	defer r.s.enter(ctx)()
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, uid := range []string{report.ReporterID, report.TargetUserID} {
		if _, ok := r.s.t.users[uid]; !ok {
			return nil, common.ErrorNotFound
		}
	}
	id, seq := r.s.next()
	report.ID, report.IsRead, report.CreatedAt = id, false, r.s.now()
	r.s.t.reports[id] = reportRow{Report: *report, seq: seq}
	return report, nil
}

func (r *ReportsRepository) GetByID(ctx context.Context, id string) (*models.Report, error) {
	defer r.s.enter(ctx)()
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	row, ok := r.s.t.reports[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	rp := row.Report
	return &rp, nil
}

func (r *ReportsRepository) List(ctx context.Context, page models.Page) ([]*models.Report, error) {
	defer r.s.enter(ctx)()
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*models.Report
	for _, row := range paginate(collect(r.s.t.reports, nil, true), page) {
		rp := row.Report
		out = append(out, &rp)
	}
	return out, nil
}

func (r *ReportsRepository) MarkAsRead(ctx context.Context, id string) error {
	defer r.s.enter(ctx)()
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	row, ok := r.s.t.reports[id]
	if !ok {
		return common.ErrorNotFound
	}
	row.IsRead = true
	r.s.t.reports[id] = row
	return nil
}

func (r *ReportsRepository) CountUnread(ctx context.Context) (int64, error) {
	defer r.s.enter(ctx)()
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return int64(len(collect(r.s.t.reports, func(rp reportRow) bool { return !rp.IsRead }, false))), nil
}

type MessagesRepository struct {
	s *Store
}

func (r *MessagesRepository) Create(ctx context.Context, msg *models.Message) (*models.Message, error) {
	defer r.s.enter(ctx)()
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, uid := range []string{msg.SenderID, msg.ReceiverID} {
		if _, ok := r.s.t.users[uid]; !ok {
			return nil, common.ErrorNotFound
		}
	}
	id, seq := r.s.next()
	msg.ID, msg.CreatedAt = id, r.s.now()
	r.s.t.messages[id] = messageRow{Message: *msg, seq: seq}
	return msg, nil
}

func (r *MessagesRepository) GetByID(ctx context.Context, id string) (*models.Message, error) {
	defer r.s.enter(ctx)()
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	row, ok := r.s.t.messages[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	m := row.Message
	return &m, nil
}

func (r *MessagesRepository) list(keep func(messageRow) bool, page models.Page) []*models.Message {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*models.Message
	for _, row := range paginate(collect(r.s.t.messages, keep, true), page) {
		m := row.Message
		out = append(out, &m)
	}
	return out
}

func (r *MessagesRepository) ListInbox(ctx context.Context, receiverID string, page models.Page) ([]*models.Message, error) {
	defer r.s.enter(ctx)()
	return r.list(func(m messageRow) bool { return m.ReceiverID == receiverID && !m.DeletedByReceiver }, page), nil
}

func (r *MessagesRepository) ListSent(ctx context.Context, senderID string, page models.Page) ([]*models.Message, error) {
	defer r.s.enter(ctx)()
	return r.list(func(m messageRow) bool { return m.SenderID == senderID && !m.DeletedBySender }, page), nil
}

func (r *MessagesRepository) update(id string, fn func(m *models.Message)) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	row, ok := r.s.t.messages[id]
	if !ok {
		return common.ErrorNotFound
	}
	fn(&row.Message)
	r.s.t.messages[id] = row
	return nil
}

func (r *MessagesRepository) MarkAsRead(ctx context.Context, id string, at time.Time) error {
	defer r.s.enter(ctx)()
	return r.update(id, func(m *models.Message) {
		m.IsRead = true
		if m.ReadAt == nil {
			t := at
			m.ReadAt = &t
		}
	})
}

func (r *MessagesRepository) SetDeletedBySender(ctx context.Context, id string) error {
	defer r.s.enter(ctx)()
	return r.update(id, func(m *models.Message) { m.DeletedBySender = true })
}

func (r *MessagesRepository) SetDeletedByReceiver(ctx context.Context, id string) error {
	defer r.s.enter(ctx)()
	return r.update(id, func(m *models.Message) { m.DeletedByReceiver = true })
}

func (r *MessagesRepository) Delete(ctx context.Context, id string) error {
	defer r.s.enter(ctx)()
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.t.messages[id]; !ok {
		return common.ErrorNotFound
	}
	delete(r.s.t.messages, id)
	return nil
}

func (r *MessagesRepository) CountUnreadByKind(ctx context.Context, kind models.MessageKind) (int64, error) {
	defer r.s.enter(ctx)()
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	rows := collect(r.s.t.messages, func(m messageRow) bool { return m.Kind == kind && !m.IsRead }, false)
	return int64(len(rows)), nil
}
