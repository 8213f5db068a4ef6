package bot

import (
	"context"

	"github.com/slack-go/slack"

	"github.com/viennagloria/boss-task-tracker/internal/logger"
)

// Gateway wraps the Slack Web API client. Metadata lookups are
// best-effort: failures are logged and reported as empty values so a pin
// still lands with whatever could be resolved.
type Gateway struct {
	client *slack.Client
}

// NewGateway creates a Gateway for the given bot token.
func NewGateway(botToken string) *Gateway {
	return &Gateway{client: slack.New(botToken)}
}

// Client exposes the underlying Web API client.
func (g *Gateway) Client() *slack.Client {
	return g.client
}

// FetchMessage retrieves the text and author of a single message.
func (g *Gateway) FetchMessage(ctx context.Context, channelID, messageTS string) (text, authorID string, err error) {
	resp, err := g.client.GetConversationHistoryContext(ctx, &slack.GetConversationHistoryParameters{
		ChannelID: channelID,
		Latest:    messageTS,
		Inclusive: true,
		Limit:     1,
	})
	if err != nil {
		logger.Errorf("Error fetching message %s in %s: %v", messageTS, channelID, err)
		return "", "", err
	}
	if len(resp.Messages) == 0 {
		return "", "", nil
	}

	msg := resp.Messages[0]
	text = msg.Text
	if text == "" {
		text = "[No text content]"
	}
	authorID = msg.User
	if authorID == "" {
		authorID = "unknown"
	}
	return text, authorID, nil
}

// GetPermalink resolves a deep link to the message; empty on failure.
func (g *Gateway) GetPermalink(ctx context.Context, channelID, messageTS string) string {
	permalink, err := g.client.GetPermalinkContext(ctx, &slack.PermalinkParameters{
		Channel: channelID,
		Ts:      messageTS,
	})
	if err != nil {
		logger.Errorf("Error getting permalink for %s: %v", messageTS, err)
		return ""
	}
	return permalink
}

// GetUserDisplayName resolves a user's display name, falling back to the
// real name and then the account name; empty on failure.
func (g *Gateway) GetUserDisplayName(ctx context.Context, userID string) string {
	user, err := g.client.GetUserInfoContext(ctx, userID)
	if err != nil {
		logger.Errorf("Error getting user info for %s: %v", userID, err)
		return ""
	}
	if user.Profile.DisplayName != "" {
		return user.Profile.DisplayName
	}
	if user.Profile.RealName != "" {
		return user.Profile.RealName
	}
	return user.Name
}

// GetChannelName resolves a channel's name; empty on failure.
func (g *Gateway) GetChannelName(ctx context.Context, channelID string) string {
	channel, err := g.client.GetConversationInfoContext(ctx, &slack.GetConversationInfoInput{
		ChannelID: channelID,
	})
	if err != nil {
		logger.Errorf("Error getting channel info for %s: %v", channelID, err)
		return ""
	}
	return channel.Name
}

// AddReaction adds an emoji reaction to a message. Reacting twice is fine.
func (g *Gateway) AddReaction(ctx context.Context, channelID, messageTS, emoji string) {
	err := g.client.AddReactionContext(ctx, emoji, slack.NewRefToMessage(channelID, messageTS))
	if err != nil && err.Error() != "already_reacted" {
		logger.Errorf("Error adding %s reaction to %s: %v", emoji, messageTS, err)
	}
}
