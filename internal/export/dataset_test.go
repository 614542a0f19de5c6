package export

import (
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/epythonlab/amharic-telegram-ecommerce-entity-extraction/internal/models"
	"github.com/epythonlab/amharic-telegram-ecommerce-entity-extraction/internal/ner"
	"github.com/epythonlab/amharic-telegram-ecommerce-entity-extraction/internal/repo"
)

func seedProcessed(t *testing.T, messages *repo.InMemoryMessageRepository, text string) models.Message {
	t.Helper()
	msg, err := messages.Create(models.Message{
		ChannelID:  1,
		TelegramID: time.Now().UnixNano(),
		Text:       text,
		PostedAt:   time.Now().UTC(),
		Status:     models.MessageStatusProcessed,
	})
	require.NoError(t, err)
	return msg
}

func TestBuilderCoNLL(t *testing.T) {
	messages := repo.NewInMemoryMessageRepository()
	seedProcessed(t, messages, "ዋጋ 500 ብር")
	seedProcessed(t, messages, "ቦሌ")

	// Pending messages are excluded from the dataset.
	_, err := messages.Create(models.Message{
		ChannelID: 1, TelegramID: 999, Text: "ዋጋ 100 ብር",
		Status: models.MessageStatusPending,
	})
	require.NoError(t, err)

	b := NewBuilder(messages, ner.NewLabeler(nil, nil))
	out, err := b.CoNLL()
	require.NoError(t, err)

	want := "ዋጋ B-PRICE\n500 I-PRICE\nብር I-PRICE\n\nቦሌ B-LOC\n\n"
	assert.Equal(t, want, string(out))
}

func TestBuilderCSV(t *testing.T) {
	messages := repo.NewInMemoryMessageRepository()
	msg := seedProcessed(t, messages, "ዋጋ 500 ብር")

	b := NewBuilder(messages, ner.NewLabeler(nil, nil))
	out, err := b.CSV()
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	require.Len(t, lines, 4, "header plus three token rows")
	assert.Equal(t, "message_id,position,token,label", lines[0])
	assert.Contains(t, lines[1], "ዋጋ")
	assert.Contains(t, lines[1], "B-PRICE")
	for _, line := range lines[1:] {
		assert.True(t, strings.HasPrefix(line, "1,"), "message id %d expected", msg.ID)
	}
}

type fakeS3 struct {
	s3iface.S3API
	puts []*s3.PutObjectInput
}

func (f *fakeS3) PutObject(in *s3.PutObjectInput) (*s3.PutObjectOutput, error) {
	f.puts = append(f.puts, in)
	return &s3.PutObjectOutput{}, nil
}

func TestS3UploaderUpload(t *testing.T) {
	fake := &fakeS3{}
	u := NewS3UploaderWithClient(fake, "datasets-bucket", "ner")

	key, err := u.Upload([]byte("ዋጋ B-PRICE\n"), "conll")
	require.NoError(t, err)

	require.Len(t, fake.puts, 1)
	assert.Equal(t, "datasets-bucket", *fake.puts[0].Bucket)
	assert.True(t, strings.HasPrefix(key, "ner/conll-dataset-"))
	assert.True(t, strings.HasSuffix(key, ".txt"))
}
