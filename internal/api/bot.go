package telegram

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"

	app "digit-vision/internal/application"
	"digit-vision/internal/domain/entity"
)

const (
	msgStart = `👋 Привет! Я распознаю рукописные цифры.

✍️ Нарисуйте одну цифру (0–9) тёмным цветом на светлом фоне и отправьте мне фото или картинку.

📋 Команды:
/classify — распознать цифру
/last — последний результат
/clear — сбросить результат
/help — справка`

	msgHelp = `ℹ️ Как пользоваться ботом:

1️⃣ Нарисуйте цифру на листе или в редакторе
2️⃣ Отправьте фото или файл изображения
3️⃣ Бот ответит распознанной цифрой

💡 Рекомендации:
• Одна цифра на изображении
• Толстая тёмная линия на светлом фоне
• Цифра крупно, по центру

📋 Команды:
/classify — распознать цифру
/last — последний результат
/clear — сбросить результат
/cancel — отменить операцию`

	msgAwaitingDigit   = "✍️ Отправьте изображение цифры."
	msgCancelled       = "❌ Операция отменена. Отправьте /classify для нового распознавания."
	msgCleared         = "🧹 Результат сброшен."
	msgNoResult        = "Пока нет результата. Отправьте изображение цифры."
	msgSendImage       = "✍️ Пожалуйста, отправьте изображение цифры."
	msgUnknownCommand  = "❓ Неизвестная команда. Используйте /help для справки."
	msgProcessing      = "⏳ Распознаю цифру..."
	msgDownloadError   = "⚠️ Не удалось получить изображение. Попробуйте ещё раз."
	msgInternalError   = "⚠️ Что-то пошло не так. Попробуйте ещё раз."
	msgResultTemplate  = "🔢 Распознанная цифра: %d"
	maxImageBytes      = 10 << 20
	downloadTimeout    = 30 * time.Second
)

// Bot представляет Telegram-бота
type Bot struct {
	api         *tgbotapi.BotAPI
	sessions    *app.SessionService
	recognition *app.RecognitionService
	logger      *logrus.Logger
	http        *http.Client
}

// NewBot создаёт нового бота
func NewBot(token string, sessions *app.SessionService, recognition *app.RecognitionService, logger *logrus.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}

	logger.WithField("account", api.Self.UserName).Info("Authorized on Telegram")

	return &Bot{
		api:         api,
		sessions:    sessions,
		recognition: recognition,
		logger:      logger,
		http:        &http.Client{Timeout: downloadTimeout},
	}, nil
}

// Run запускает основной цикл обработки сообщений до отмены контекста
func (b *Bot) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)
	defer b.api.StopReceivingUpdates()

	for {
		select {
		case <-ctx.Done():
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			if update.Message == nil {
				continue
			}
			b.handleMessage(ctx, update.Message)
		}
	}
}

// handleMessage обрабатывает входящее сообщение
func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	if msg.From == nil {
		return
	}

	// Обработка команд
	if msg.IsCommand() {
		b.handleCommand(ctx, msg)
		return
	}

	// Обработка фото и файлов-картинок
	if fileID, ok := imageFileID(msg); ok {
		b.handleImage(ctx, msg, fileID)
		return
	}

	b.sendMessage(msg.Chat.ID, msgSendImage)
}

// handleCommand обрабатывает команды бота
func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message) {
	userID, chatID := msg.From.ID, msg.Chat.ID

	switch msg.Command() {
	case "start":
		if _, err := b.sessions.Cancel(ctx, userID, chatID); err != nil {
			b.fail(chatID, "start", err)
			return
		}
		b.sendMessage(chatID, msgStart)

	case "help":
		b.sendMessage(chatID, msgHelp)

	case "classify":
		if _, err := b.sessions.BeginClassify(ctx, userID, chatID); err != nil {
			b.fail(chatID, "classify", err)
			return
		}
		b.sendMessage(chatID, msgAwaitingDigit)

	case "cancel":
		if _, err := b.sessions.Cancel(ctx, userID, chatID); err != nil {
			b.fail(chatID, "cancel", err)
			return
		}
		b.sendMessage(chatID, msgCancelled)

	case "clear":
		if err := b.recognition.Clear(ctx, userID, chatID); err != nil {
			b.fail(chatID, "clear", err)
			return
		}
		b.sendMessage(chatID, msgCleared)

	case "last":
		last, err := b.recognition.Last(ctx, userID, chatID)
		if err != nil {
			b.fail(chatID, "last", err)
			return
		}
		if last == nil {
			b.sendMessage(chatID, msgNoResult)
			return
		}
		b.sendMessage(chatID, formatPrediction(last))

	default:
		b.sendMessage(chatID, msgUnknownCommand)
	}
}

// handleImage скачивает изображение и распознаёт цифру
func (b *Bot) handleImage(ctx context.Context, msg *tgbotapi.Message, fileID string) {
	chatID := msg.Chat.ID
	b.sendMessage(chatID, msgProcessing)

	imageData, err := b.downloadFile(ctx, fileID)
	if err != nil {
		b.logger.WithFields(logrus.Fields{
			"chat_id": chatID,
			"error":   err,
		}).Error("Error downloading image")
		b.sendMessage(chatID, msgDownloadError)
		return
	}

	b.logger.WithFields(logrus.Fields{
		"chat_id": chatID,
		"bytes":   len(imageData),
	}).Debug("Received image")

	prediction, err := b.recognition.ProcessImage(ctx, msg.From.ID, chatID, imageData)
	if err != nil {
		b.sendMessage(chatID, "⚠️ "+entity.UserMessage(err))
		return
	}

	b.sendMessage(chatID, formatPrediction(prediction))
}

// downloadFile скачивает файл из Telegram
func (b *Bot) downloadFile(ctx context.Context, fileID string) ([]byte, error) {
	file, err := b.api.GetFile(tgbotapi.FileConfig{FileID: fileID})
	if err != nil {
		return nil, fmt.Errorf("get file: %w", err)
	}
	if file.FileSize > maxImageBytes {
		return nil, fmt.Errorf("file is too large: %d bytes", file.FileSize)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, file.Link(b.api.Token), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := b.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download file: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download file: status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes))
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	return data, nil
}

// fail пишет ошибку в лог и отвечает пользователю общим сообщением
func (b *Bot) fail(chatID int64, op string, err error) {
	b.logger.WithFields(logrus.Fields{
		"chat_id": chatID,
		"op":      op,
		"error":   err,
	}).Error("Session error")
	b.sendMessage(chatID, msgInternalError)
}

// sendMessage отправляет текстовое сообщение
func (b *Bot) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.api.Send(msg); err != nil {
		b.logger.WithError(err).Error("Error sending message")
	}
}

// imageFileID возвращает файл с максимальным разрешением или картинку-документ
func imageFileID(msg *tgbotapi.Message) (string, bool) {
	if len(msg.Photo) > 0 {
		return msg.Photo[len(msg.Photo)-1].FileID, true
	}
	if msg.Document != nil && strings.HasPrefix(msg.Document.MimeType, "image/") {
		return msg.Document.FileID, true
	}
	return "", false
}

func formatPrediction(p *entity.Prediction) string {
	return fmt.Sprintf(msgResultTemplate, p.Digit)
}
