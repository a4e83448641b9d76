package app

import (
	"context"
	"encoding/json"
	"strings"

	"docuchat/internal/ai"
	"docuchat/internal/model"
)

const contextualizePrompt = "Given a chat history and the latest user question " +
	"which might reference context in the chat history, " +
	"formulate a standalone question which can be understood " +
	"without the chat history. Do NOT answer the question, " +
	"just reformulate it if needed and otherwise return it as is."

const groundedAnswerPrompt = "You are an assistant for question-answering tasks. " +
	"Use the following pieces of retrieved context to answer " +
	"the question. If you don't know the answer, say that you " +
	"don't know. Use three sentences maximum and keep the " +
	"answer concise.\n\n"

// ChunkSearcher is the retrieval side of the answer pipeline.
type ChunkSearcher interface {
	SearchByDocumentID(documentID string, query []float32, k int) ([]model.Chunk, error)
}

// AnswerService streams completions, either straight from the provider or
// grounded in chunks retrieved for one document. Per-request only; nothing is
// kept across calls.
type AnswerService struct {
	llm      *ai.Client
	searcher ChunkSearcher
	chatCfg  ai.ChatConfig
	embCfg   ai.EmbeddingConfig
	topK     int
}

func NewAnswerService(
	llm *ai.Client,
	searcher ChunkSearcher,
	chatCfg ai.ChatConfig,
	embCfg ai.EmbeddingConfig,
	topK int,
) *AnswerService {
	if topK <= 0 {
		topK = 5
	}
	return &AnswerService{
		llm:      llm,
		searcher: searcher,
		chatCfg:  chatCfg,
		embCfg:   embCfg,
		topK:     topK,
	}
}

// StreamChat forwards the caller's message list to the provider untouched and
// streams back text deltas. Message shapes are not validated here.
func (s *AnswerService) StreamChat(ctx context.Context, messages json.RawMessage, onChunk func(string) error) error {
	if len(messages) == 0 {
		return ErrInvalidInput
	}
	_, err := s.llm.StreamCompleteRaw(ctx, s.chatCfg, messages, onChunk)
	return err
}

// StreamRAGChat answers the latest message grounded in the given document:
// reformulate the question against prior turns, retrieve the top-k nearest
// chunks for the document, then stream a grounded answer. Any stage failure
// aborts the request; there are no stage-level retries.
func (s *AnswerService) StreamRAGChat(
	ctx context.Context,
	messages []model.ChatMessage,
	documentID string,
	onChunk func(string) error,
) error {
	if len(messages) == 0 || documentID == "" {
		return ErrInvalidInput
	}

	latest := messages[len(messages)-1].Content
	history := chatHistory(messages[:len(messages)-1])

	query, err := s.reformulate(ctx, history, latest)
	if err != nil {
		return err
	}

	queryEmb, err := s.llm.Embed(ctx, s.embCfg, query)
	if err != nil {
		return err
	}
	chunks, err := s.searcher.SearchByDocumentID(documentID, queryEmb, s.topK)
	if err != nil {
		return err
	}

	contents := make([]string, len(chunks))
	for i := range chunks {
		contents[i] = chunks[i].Content
	}

	prompt := make([]ai.ChatMessage, 0, len(history)+2)
	prompt = append(prompt, ai.ChatMessage{
		Role:    "system",
		Content: groundedAnswerPrompt + strings.Join(contents, "\n\n"),
	})
	prompt = append(prompt, history...)
	prompt = append(prompt, ai.ChatMessage{Role: "user", Content: latest})

	_, err = s.llm.StreamComplete(ctx, s.chatCfg, prompt, onChunk)
	return err
}

// reformulate turns the latest message into a standalone query. With no prior
// history the message passes through unchanged.
func (s *AnswerService) reformulate(ctx context.Context, history []ai.ChatMessage, latest string) (string, error) {
	if len(history) == 0 {
		return latest, nil
	}

	prompt := make([]ai.ChatMessage, 0, len(history)+2)
	prompt = append(prompt, ai.ChatMessage{Role: "system", Content: contextualizePrompt})
	prompt = append(prompt, history...)
	prompt = append(prompt, ai.ChatMessage{Role: "user", Content: latest})

	query, err := s.llm.Complete(ctx, s.chatCfg, prompt)
	if err != nil {
		return "", err
	}
	query = strings.TrimSpace(query)
	if query == "" {
		query = latest
	}
	return query, nil
}

// chatHistory keeps only user and assistant turns, the two roles a saved
// transcript may carry.
func chatHistory(messages []model.ChatMessage) []ai.ChatMessage {
	history := make([]ai.ChatMessage, 0, len(messages))
	for _, m := range messages {
		if m.Role != "user" && m.Role != "assistant" {
			continue
		}
		history = append(history, ai.ChatMessage{Role: m.Role, Content: m.Content})
	}
	return history
}
