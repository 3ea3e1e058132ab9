package service

import (
	"context"
	"encoding/json"
	"log"
	"strings"
	"time"

	"ai-scribe-be/internal/constant"
	"ai-scribe-be/internal/dto"
	"ai-scribe-be/internal/repository/specification"
	"ai-scribe-be/internal/repository/unitofwork"
	"ai-scribe-be/pkg/scribe/codec"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

const maxDerivedTitleLen = 80

// IConsumerService runs the async auto-titling worker. After an exchange is
// persisted, activities still carrying their placeholder title get one
// derived from the clinician's prompt.
type IConsumerService interface {
	Consume(ctx context.Context) error
}

type consumerService struct {
	pubSub     *gochannel.GoChannel
	topicName  string
	uowFactory unitofwork.RepositoryFactory
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	uowFactory unitofwork.RepositoryFactory,
) IConsumerService {
	return &consumerService{
		pubSub:     pubSub,
		topicName:  topicName,
		uowFactory: uowFactory,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.PublishExchangePersistedMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		log.Printf("[ERROR] Failed to unmarshal message: %v", err)
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	uow := cs.uowFactory.NewUnitOfWork(ctx)
	activity, err := uow.ActivityRepository().FindOne(ctx, specification.ByID{ID: payload.ActivityId})
	if err != nil {
		log.Printf("[ERROR] Failed to get activity %s: %v", payload.ActivityId, err)
		msg.Nack() // Retriable
		return
	}
	if activity == nil {
		msg.Ack() // Deleted in the meantime
		return
	}

	// Only replace untouched placeholder titles
	if activity.Title != constant.DefaultTitleFor(activity.Type) {
		msg.Ack()
		return
	}

	ex := codec.Decode(activity.PersistedRecord)
	title := deriveTitle(ex.DisplayPrompt)
	if title == "" {
		msg.Ack()
		return
	}

	activity.Title = title
	now := time.Now()
	activity.UpdatedAt = &now
	if err := uow.ActivityRepository().Update(ctx, activity); err != nil {
		log.Printf("[ERROR] Failed to retitle activity %s: %v", payload.ActivityId, err)
		msg.Nack()
		return
	}

	log.Printf("[INFO] Retitled activity %s to %q", payload.ActivityId, title)
	msg.Ack()
}

// deriveTitle takes the first non-empty line of the prompt, truncated on a
// word boundary.
func deriveTitle(displayPrompt string) string {
	for _, line := range strings.Split(displayPrompt, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if len(line) <= maxDerivedTitleLen {
			return line
		}
		cut := line[:maxDerivedTitleLen]
		if idx := strings.LastIndex(cut, " "); idx > 0 {
			cut = cut[:idx]
		}
		return cut
	}
	return ""
}
