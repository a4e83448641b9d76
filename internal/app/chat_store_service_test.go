package app

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docuchat/internal/model"
	"docuchat/internal/platform/s3"
)

type fakeChatStore struct {
	rows      map[string]model.Chat
	upsertErr error
}

func newFakeChatStore() *fakeChatStore {
	return &fakeChatStore{rows: make(map[string]model.Chat)}
}

func (f *fakeChatStore) Upsert(chat *model.Chat) error {
	if f.upsertErr != nil {
		return f.upsertErr
	}
	f.rows[chat.ID] = *chat
	return nil
}

func (f *fakeChatStore) ListByLastUpdate() ([]model.Chat, error) {
	out := make([]model.Chat, 0, len(f.rows))
	for _, row := range f.rows {
		out = append(out, row)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].LastUpdate.After(out[j].LastUpdate)
	})
	return out, nil
}

func (f *fakeChatStore) GetByID(id string) (*model.Chat, error) {
	row, ok := f.rows[id]
	if !ok {
		return nil, nil
	}
	return &row, nil
}

func (f *fakeChatStore) DeleteByID(id string) error {
	delete(f.rows, id)
	return nil
}

type fakeObjectStore struct {
	blobs map[string][]byte
}

func newFakeObjectStore() *fakeObjectStore {
	return &fakeObjectStore{blobs: make(map[string][]byte)}
}

func (f *fakeObjectStore) Put(_ context.Context, key string, body []byte) error {
	f.blobs[key] = body
	return nil
}

func (f *fakeObjectStore) Get(_ context.Context, key string) ([]byte, error) {
	data, ok := f.blobs[key]
	if !ok {
		return nil, s3.ErrNotFound
	}
	return data, nil
}

func (f *fakeObjectStore) Delete(_ context.Context, key string) error {
	if _, ok := f.blobs[key]; !ok {
		return s3.ErrNotFound
	}
	delete(f.blobs, key)
	return nil
}

func TestSaveChat_ThenLoad(t *testing.T) {
	chats := newFakeChatStore()
	objects := newFakeObjectStore()
	service := NewChatStoreService(chats, objects, nil)

	messages := []model.ChatMessage{
		{Role: "user", Content: "hello"},
		{Role: "assistant", Content: "hi there"},
	}
	err := service.SaveChat(context.Background(), SaveChatInput{
		ChatID:   "chat-1",
		ChatName: "First chat",
		Messages: messages,
		PDFName:  "paper.pdf",
		PDFPath:  "pdf_store/abc_paper.pdf",
		PDFUUID:  "abc",
	})
	require.NoError(t, err)

	assert.Contains(t, objects.blobs, "chat_logs/chat-1.json")

	records, err := service.LoadChats(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "chat-1", records[0].ID)
	assert.Equal(t, "First chat", records[0].ChatName)
	assert.Equal(t, messages, records[0].Messages)
	assert.Equal(t, "paper.pdf", records[0].PDFName)
	assert.Equal(t, "abc", records[0].PDFUUID)
}

func TestSaveChat_UpsertsInPlace(t *testing.T) {
	chats := newFakeChatStore()
	objects := newFakeObjectStore()
	service := NewChatStoreService(chats, objects, nil)

	first := SaveChatInput{
		ChatID:   "chat-1",
		ChatName: "Old name",
		Messages: []model.ChatMessage{{Role: "user", Content: "v1"}},
	}
	require.NoError(t, service.SaveChat(context.Background(), first))

	second := first
	second.ChatName = "New name"
	second.Messages = []model.ChatMessage{{Role: "user", Content: "v2"}}
	require.NoError(t, service.SaveChat(context.Background(), second))

	records, err := service.LoadChats(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "New name", records[0].ChatName)
	assert.Equal(t, "v2", records[0].Messages[0].Content)
	assert.Len(t, objects.blobs, 1)
}

func TestSaveChat_EmptyID(t *testing.T) {
	service := NewChatStoreService(newFakeChatStore(), newFakeObjectStore(), nil)
	err := service.SaveChat(context.Background(), SaveChatInput{})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestSaveChat_BlobPersistsWhenUpsertFails(t *testing.T) {
	chats := newFakeChatStore()
	chats.upsertErr = assert.AnError
	objects := newFakeObjectStore()
	service := NewChatStoreService(chats, objects, nil)

	err := service.SaveChat(context.Background(), SaveChatInput{
		ChatID:   "chat-1",
		Messages: []model.ChatMessage{{Role: "user", Content: "hi"}},
	})
	require.Error(t, err)
	assert.Contains(t, objects.blobs, "chat_logs/chat-1.json")
	assert.Empty(t, chats.rows)
}

func TestLoadChats_MostRecentFirst(t *testing.T) {
	chats := newFakeChatStore()
	objects := newFakeObjectStore()
	service := NewChatStoreService(chats, objects, nil)

	for _, id := range []string{"older", "newer"} {
		require.NoError(t, service.SaveChat(context.Background(), SaveChatInput{
			ChatID:   id,
			ChatName: id,
			Messages: []model.ChatMessage{{Role: "user", Content: id}},
		}))
	}
	// force a strict ordering regardless of clock resolution
	older := chats.rows["older"]
	newer := chats.rows["newer"]
	older.LastUpdate = newer.LastUpdate.Add(-time.Second)
	chats.rows["older"] = older

	records, err := service.LoadChats(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "newer", records[0].ID)
	assert.Equal(t, "older", records[1].ID)
}

func TestLoadChats_SkipsBrokenTranscripts(t *testing.T) {
	chats := newFakeChatStore()
	objects := newFakeObjectStore()
	service := NewChatStoreService(chats, objects, nil)

	require.NoError(t, service.SaveChat(context.Background(), SaveChatInput{
		ChatID:   "good",
		Messages: []model.ChatMessage{{Role: "user", Content: "ok"}},
	}))

	chats.rows["missing"] = model.Chat{ID: "missing", FilePath: "chat_logs/missing.json"}
	chats.rows["empty"] = model.Chat{ID: "empty", FilePath: "chat_logs/empty.json"}
	objects.blobs["chat_logs/empty.json"] = nil
	chats.rows["corrupt"] = model.Chat{ID: "corrupt", FilePath: "chat_logs/corrupt.json"}
	objects.blobs["chat_logs/corrupt.json"] = []byte("{not json")

	records, err := service.LoadChats(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "good", records[0].ID)
}

func TestDeleteChat_RemovesRowAndBlobs(t *testing.T) {
	chats := newFakeChatStore()
	objects := newFakeObjectStore()
	service := NewChatStoreService(chats, objects, nil)

	require.NoError(t, service.SaveChat(context.Background(), SaveChatInput{
		ChatID:   "chat-1",
		Messages: []model.ChatMessage{{Role: "user", Content: "hi"}},
		PDFPath:  "pdf_store/abc_paper.pdf",
		PDFUUID:  "abc",
	}))
	objects.blobs["pdf_store/abc_paper.pdf"] = []byte("%PDF-")

	require.NoError(t, service.DeleteChat(context.Background(), "chat-1"))

	assert.Empty(t, chats.rows)
	assert.NotContains(t, objects.blobs, "chat_logs/chat-1.json")
	assert.NotContains(t, objects.blobs, "pdf_store/abc_paper.pdf")
}

func TestDeleteChat_MissingBlobIsFine(t *testing.T) {
	chats := newFakeChatStore()
	objects := newFakeObjectStore()
	service := NewChatStoreService(chats, objects, nil)

	chats.rows["chat-1"] = model.Chat{ID: "chat-1", FilePath: "chat_logs/chat-1.json"}

	err := service.DeleteChat(context.Background(), "chat-1")
	require.NoError(t, err)
	assert.Empty(t, chats.rows)
}

func TestDeleteChat_UnknownID(t *testing.T) {
	service := NewChatStoreService(newFakeChatStore(), newFakeObjectStore(), nil)
	err := service.DeleteChat(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrChatNotFound)
}
