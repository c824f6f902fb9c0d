package services

import (
	"context"
	"time"

	"github.com/dmitrijs2005/imprint/internal/common"
	"github.com/dmitrijs2005/imprint/internal/server/models"
	"github.com/dmitrijs2005/imprint/internal/server/policy"
	"github.com/dmitrijs2005/imprint/internal/server/repositories/repomanager"
)

// MessageService handles direct messages and support tickets. Each side of a
// conversation deletes independently; the row goes away once both did.
type MessageService struct {
	repomanager repomanager.RepositoryManager
	now         func() time.Time
}

func NewMessageService(m repomanager.RepositoryManager) *MessageService {
	return &MessageService{repomanager: m, now: time.Now}
}

func (s *MessageService) send(ctx context.Context, repos repomanager.Repositories, senderID, receiverID string, kind models.MessageKind, content string) (*models.Message, error) {
	return repos.Messages().Create(ctx, &models.Message{
		SenderID:   senderID,
		ReceiverID: receiverID,
		Kind:       kind,
		Content:    content,
	})
}

// Send delivers a direct message to an ACTIVE receiver.
func (s *MessageService) Send(ctx context.Context, actor models.Actor, receiverID, content string) (*models.Message, error) {
	if err := policy.RequireActive(actor); err != nil {
		return nil, err
	}
	content, err := requireText("content", content, maxContentLen)
	if err != nil {
		return nil, err
	}
	if receiverID == actor.UserID {
		return nil, invalid("cannot message yourself")
	}

	receiver, err := s.repomanager.Users().GetByID(ctx, receiverID)
	if err != nil {
		return nil, err
	}
	if receiver.Status != models.StatusActive {
		return nil, common.ErrInvalidState
	}
	return s.send(ctx, s.repomanager, actor.UserID, receiverID, models.MessageDirect, content)
}

// SendSupport opens a support ticket addressed to the earliest admin.
func (s *MessageService) SendSupport(ctx context.Context, actor models.Actor, content string) (*models.Message, error) {
	if err := policy.RequireActive(actor); err != nil {
		return nil, err
	}
	content, err := requireText("content", content, maxContentLen)
	if err != nil {
		return nil, err
	}

	admin, err := s.repomanager.Users().FirstAdmin(ctx)
	if err != nil {
		return nil, err
	}
	if admin.ID == actor.UserID {
		return nil, invalid("cannot open a support ticket to yourself")
	}
	return s.send(ctx, s.repomanager, actor.UserID, admin.ID, models.MessageSupport, content)
}

// Reply answers a support ticket. The ticket is marked read and the answer
// goes back to its sender as a direct message.
func (s *MessageService) Reply(ctx context.Context, actor models.Actor, messageID, content string) (*models.Message, error) {
	if err := policy.RequireAdmin(actor); err != nil {
		return nil, err
	}
	content, err := requireText("content", content, maxContentLen)
	if err != nil {
		return nil, err
	}

	var reply *models.Message
	err = s.repomanager.WithTx(ctx, func(ctx context.Context, repos repomanager.Repositories) error {
		ticket, err := repos.Messages().GetByID(ctx, messageID)
		if err != nil {
			return err
		}
		if ticket.Kind != models.MessageSupport {
			return invalid("only support messages can be replied to")
		}
		if err := repos.Messages().MarkAsRead(ctx, ticket.ID, s.now()); err != nil {
			return err
		}
		reply, err = s.send(ctx, repos, actor.UserID, ticket.SenderID, models.MessageDirect, content)
		return err
	})
	if err != nil {
		return nil, err
	}
	return reply, nil
}

func (s *MessageService) Inbox(ctx context.Context, actor models.Actor, page models.Page) ([]*models.Message, error) {
	return s.repomanager.Messages().ListInbox(ctx, actor.UserID, page)
}

func (s *MessageService) Sent(ctx context.Context, actor models.Actor, page models.Page) ([]*models.Message, error) {
	return s.repomanager.Messages().ListSent(ctx, actor.UserID, page)
}

// visible loads a message the actor takes part in and has not deleted.
// Others get common.ErrAccessDenied.
func visible(ctx context.Context, repos repomanager.Repositories, actor models.Actor, messageID string) (*models.Message, error) {
	msg, err := repos.Messages().GetByID(ctx, messageID)
	if err != nil {
		return nil, err
	}
	switch actor.UserID {
	case msg.SenderID:
		if msg.DeletedBySender {
			return nil, common.ErrorNotFound
		}
	case msg.ReceiverID:
		if msg.DeletedByReceiver {
			return nil, common.ErrorNotFound
		}
	default:
		return nil, common.ErrAccessDenied
	}
	return msg, nil
}

// MarkAsRead is receiver-only. The first read time is kept.
func (s *MessageService) MarkAsRead(ctx context.Context, actor models.Actor, messageID string) error {
	return s.repomanager.WithTx(ctx, func(ctx context.Context, repos repomanager.Repositories) error {
		msg, err := visible(ctx, repos, actor, messageID)
		if err != nil {
			return err
		}
		if msg.ReceiverID != actor.UserID {
			return common.ErrAccessDenied
		}
		return repos.Messages().MarkAsRead(ctx, msg.ID, s.now())
	})
}

// Delete hides the message for the acting side and removes the row once
// both sides deleted it.
func (s *MessageService) Delete(ctx context.Context, actor models.Actor, messageID string) error {
	return s.repomanager.WithTx(ctx, func(ctx context.Context, repos repomanager.Repositories) error {
		msg, err := visible(ctx, repos, actor, messageID)
		if err != nil {
			return err
		}

		var otherSideDeleted bool
		if actor.UserID == msg.SenderID {
			err = repos.Messages().SetDeletedBySender(ctx, msg.ID)
			otherSideDeleted = msg.DeletedByReceiver
		} else {
			err = repos.Messages().SetDeletedByReceiver(ctx, msg.ID)
			otherSideDeleted = msg.DeletedBySender
		}
		if err != nil {
			return err
		}

		if otherSideDeleted {
			return repos.Messages().Delete(ctx, msg.ID)
		}
		return nil
	})
}
