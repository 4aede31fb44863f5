package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"purpleos/internal/database"
	"purpleos/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// previewLen caps the session list preview text
const previewLen = 80

// ChatHistoryService persists chat transcripts in MongoDB. Sessions have
// no document of their own; a session exists exactly as long as messages
// reference it.
type ChatHistoryService struct {
	mongodb *database.MongoDB
}

// NewChatHistoryService creates a new chat history service
func NewChatHistoryService(mongodb *database.MongoDB) *ChatHistoryService {
	return &ChatHistoryService{mongodb: mongodb}
}

// EnsureIndexes creates the indexes message queries depend on
func (s *ChatHistoryService) EnsureIndexes(ctx context.Context) error {
	coll := s.mongodb.Collection(database.CollectionChatMessages)
	_, err := coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "sessionId", Value: 1}, {Key: "createdAt", Value: 1}}},
		{Keys: bson.D{{Key: "messageId", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("failed to create chat indexes: %w", err)
	}
	log.Println("✅ Chat message indexes ensured")
	return nil
}

// SaveMessage persists one message
func (s *ChatHistoryService) SaveMessage(ctx context.Context, msg *models.ChatMessage) error {
	coll := s.mongodb.Collection(database.CollectionChatMessages)
	if _, err := coll.InsertOne(ctx, msg); err != nil {
		return fmt.Errorf("failed to save chat message: %w", err)
	}
	return nil
}

// MessagesBySession returns a session's transcript in ascending time
// order. A zero limit means the full transcript.
func (s *ChatHistoryService) MessagesBySession(ctx context.Context, userID, sessionID string, limit int) ([]models.ChatMessage, error) {
	coll := s.mongodb.Collection(database.CollectionChatMessages)

	filter := bson.M{"userId": userID, "sessionId": sessionID}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})

	if limit > 0 {
		// Newest N, then flip back to ascending
		opts = options.Find().
			SetSort(bson.D{{Key: "createdAt", Value: -1}}).
			SetLimit(int64(limit))
	}

	cursor, err := coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query chat messages: %w", err)
	}
	defer cursor.Close(ctx)

	var messages []models.ChatMessage
	if err := cursor.All(ctx, &messages); err != nil {
		return nil, fmt.Errorf("failed to decode chat messages: %w", err)
	}

	if limit > 0 {
		for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
			messages[i], messages[j] = messages[j], messages[i]
		}
	}
	return messages, nil
}

// SessionSummaries lists the user's sessions newest-activity first. The
// preview comes from each session's latest message.
func (s *ChatHistoryService) SessionSummaries(ctx context.Context, userID string) ([]models.SessionSummary, error) {
	coll := s.mongodb.Collection(database.CollectionChatMessages)

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"userId": userID}}},
		{{Key: "$sort", Value: bson.D{{Key: "createdAt", Value: 1}}}},
		{{Key: "$group", Value: bson.M{
			"_id":          "$sessionId",
			"preview":      bson.M{"$last": "$content"},
			"messageCount": bson.M{"$sum": 1},
			"lastActivity": bson.M{"$last": "$createdAt"},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "lastActivity", Value: -1}}}},
	}

	cursor, err := coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate sessions: %w", err)
	}
	defer cursor.Close(ctx)

	var raw []struct {
		ID           string    `bson:"_id"`
		Preview      string    `bson:"preview"`
		MessageCount int       `bson:"messageCount"`
		LastActivity time.Time `bson:"lastActivity"`
	}
	if err := cursor.All(ctx, &raw); err != nil {
		return nil, fmt.Errorf("failed to decode session summaries: %w", err)
	}

	summaries := make([]models.SessionSummary, 0, len(raw))
	for _, r := range raw {
		preview := r.Preview
		if preview == "" {
			preview = models.NewSessionPreview
		}
		if len(preview) > previewLen {
			preview = preview[:previewLen]
		}
		summaries = append(summaries, models.SessionSummary{
			ID:           r.ID,
			Preview:      preview,
			MessageCount: r.MessageCount,
			LastActivity: r.LastActivity,
		})
	}
	return summaries, nil
}

// AllMessages returns the user's full chat history across every session,
// ascending by time. Used by the full-recall context mode.
func (s *ChatHistoryService) AllMessages(ctx context.Context, userID string) ([]models.ChatMessage, error) {
	coll := s.mongodb.Collection(database.CollectionChatMessages)

	cursor, err := coll.Find(ctx, bson.M{"userId": userID},
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to query chat history: %w", err)
	}
	defer cursor.Close(ctx)

	var messages []models.ChatMessage
	if err := cursor.All(ctx, &messages); err != nil {
		return nil, fmt.Errorf("failed to decode chat history: %w", err)
	}
	return messages, nil
}

// UpsertMessages writes a merged transcript back, keyed by message id.
// Existing copies are replaced so reconciliation is idempotent.
func (s *ChatHistoryService) UpsertMessages(ctx context.Context, msgs []models.ChatMessage) error {
	if len(msgs) == 0 {
		return nil
	}
	coll := s.mongodb.Collection(database.CollectionChatMessages)

	writes := make([]mongo.WriteModel, 0, len(msgs))
	for _, m := range msgs {
		writes = append(writes, mongo.NewReplaceOneModel().
			SetFilter(bson.M{"messageId": m.ID, "userId": m.UserID}).
			SetReplacement(m).
			SetUpsert(true))
	}

	if _, err := coll.BulkWrite(ctx, writes, options.BulkWrite().SetOrdered(false)); err != nil {
		return fmt.Errorf("failed to upsert chat messages: %w", err)
	}
	return nil
}

// DeleteSession cascades a session delete to all of its messages
func (s *ChatHistoryService) DeleteSession(ctx context.Context, userID, sessionID string) (int64, error) {
	coll := s.mongodb.Collection(database.CollectionChatMessages)
	res, err := coll.DeleteMany(ctx, bson.M{"userId": userID, "sessionId": sessionID})
	if err != nil {
		return 0, fmt.Errorf("failed to delete session: %w", err)
	}
	return res.DeletedCount, nil
}
