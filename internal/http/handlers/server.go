package handlers

import (
	"github.com/epythonlab/amharic-telegram-ecommerce-entity-extraction/internal/auth"
	"github.com/epythonlab/amharic-telegram-ecommerce-entity-extraction/internal/export"
	repo "github.com/epythonlab/amharic-telegram-ecommerce-entity-extraction/internal/repo"
)

// Pipeline is the handler-facing surface of the extraction worker pool.
type Pipeline interface {
	Enqueue(messageID int) bool
	BacklogSize() int
	WorkerCount() int
}

// DatasetUploader pushes a rendered dataset to object storage.
type DatasetUploader interface {
	Upload(data []byte, format string) (string, error)
}

var (
	channelRepo   repo.ChannelRepository
	messageRepo   repo.MessageRepository
	entityRepo    repo.EntityRepository
	userRepo      repo.UserRepository
	analyticsRepo repo.AnalyticsRepository

	pipeline     Pipeline
	refreshStore auth.RefreshStore
	dataset      *export.Builder
	uploader     DatasetUploader
)

func SetChannelRepo(r repo.ChannelRepository) {
	channelRepo = r
}

func SetMessageRepo(r repo.MessageRepository) {
	messageRepo = r
}

func SetEntityRepo(r repo.EntityRepository) {
	entityRepo = r
}

func SetUserRepo(r repo.UserRepository) {
	userRepo = r
}

func SetAnalyticsRepo(r repo.AnalyticsRepository) {
	analyticsRepo = r
}

func SetPipeline(p Pipeline) {
	pipeline = p
}

func SetRefreshStore(s auth.RefreshStore) {
	refreshStore = s
}

// SetDatasetBuilder wires the export builder built from the message repo
// and the configured labeler.
func SetDatasetBuilder(b *export.Builder) {
	dataset = b
}

func SetUploader(u DatasetUploader) {
	uploader = u
}
