package telegram

import (
	"context"
	"errors"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"

	"telegram-group-transfer/internal/application"
	"telegram-group-transfer/internal/config"
	"telegram-group-transfer/internal/domain/ports/adapter"
	red "telegram-group-transfer/internal/infra/redis"
)

// Compile-time check
var _ adapter.Messenger = (*RealBotAdapter)(nil)

// RealBotAdapter uses tgbotapi to poll updates and delegates to BotFacade.
// It is also the Messenger the transfer engine pushes progress through.
type RealBotAdapter struct {
	bot         *tgbotapi.BotAPI
	cfg         *config.BotConfig
	facade      *application.BotFacade
	rateLimiter *red.RateLimiter
	log         *zerolog.Logger

	updateWorkers int
	cancelPolling context.CancelFunc
}

func NewRealBotAdapter(cfg *config.BotConfig, rateLimiter *red.RateLimiter, logger *zerolog.Logger) (*RealBotAdapter, error) {
	if cfg == nil {
		return nil, errors.New("bot config is nil")
	}
	workers := cfg.Workers
	if workers <= 0 {
		workers = 8
	}

	bot, err := tgbotapi.NewBotAPI(cfg.Token)
	if err != nil {
		return nil, err
	}
	botLog := logger.With().Str("component", "TelegramBot").Logger()

	return &RealBotAdapter{
		bot:           bot,
		cfg:           cfg,
		rateLimiter:   rateLimiter,
		log:           &botLog,
		updateWorkers: workers,
	}, nil
}

// SetFacade wires in the command facade. The adapter is constructed before
// the facade because the transfer engine reports progress through it.
// Must be called before StartPolling.
func (r *RealBotAdapter) SetFacade(facade *application.BotFacade) {
	r.facade = facade
}

// StartPolling begins polling Telegram for updates concurrently.
// It runs until ctx is canceled.
func (r *RealBotAdapter) StartPolling(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := r.bot.GetUpdatesChan(u)

	ctx, cancel := context.WithCancel(ctx)
	r.cancelPolling = cancel

	var wg sync.WaitGroup
	updateChan := make(chan tgbotapi.Update, 100)

	for i := 0; i < r.updateWorkers; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			for {
				select {
				case update, ok := <-updateChan:
					if !ok {
						return
					}
					if err := r.handleUpdate(ctx, update); err != nil {
						r.log.Error().Err(err).Int("worker", workerID).Msg("error handling update")
					}
				case <-ctx.Done():
					return
				}
			}
		}(i + 1)
	}

	// Dispatcher goroutine: feed updates into updateChan
	go func() {
		defer close(updateChan)
		for {
			select {
			case update := <-updates:
				select {
				case updateChan <- update:
				case <-ctx.Done():
					return
				}
			case <-ctx.Done():
				return
			}
		}
	}()

	r.log.Info().Str("username", r.bot.Self.UserName).Int("workers", r.updateWorkers).Msg("polling started")
	<-ctx.Done()
	r.bot.StopReceivingUpdates()
	wg.Wait()
	return ctx.Err()
}

func (r *RealBotAdapter) handleUpdate(ctx context.Context, update tgbotapi.Update) error {
	if r.facade == nil {
		return errors.New("bot facade not set")
	}
	switch {
	case update.CallbackQuery != nil:
		return r.handleCallback(ctx, update.CallbackQuery)
	case update.Message == nil || update.Message.From == nil:
		return nil
	case update.Message.IsCommand():
		return r.handleCommand(ctx, update.Message)
	default:
		return r.handleText(ctx, update.Message)
	}
}

func (r *RealBotAdapter) handleText(ctx context.Context, message *tgbotapi.Message) error {
	if message.Text == "" {
		return nil
	}
	isAdmin, err := r.facade.IsAdmin(ctx, message.From.ID)
	if err != nil {
		return err
	}
	if !isAdmin {
		return nil // the setup flow only exists for admins
	}
	reply, consumed, err := r.facade.HandleText(ctx, message.From.ID, message.Text)
	if err != nil {
		return err
	}
	if !consumed {
		return nil
	}
	return r.sendReply(ctx, message.Chat.ID, reply)
}

// SendMessage implements adapter.Messenger.
func (r *RealBotAdapter) SendMessage(ctx context.Context, params adapter.SendMessageParams) error {
	msg := tgbotapi.NewMessage(params.ChatID, params.Text)
	if kb, ok := toInlineKeyboard(params.Buttons); ok {
		msg.ReplyMarkup = kb
	}

	// tgbotapi's Send has no context support; run it in a goroutine so the
	// caller's deadline still bounds the wait.
	errCh := make(chan error, 1)
	go func() {
		_, err := r.bot.Send(msg)
		errCh <- err
	}()
	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (r *RealBotAdapter) sendReply(ctx context.Context, chatID int64, reply application.Reply) error {
	if reply.Text == "" {
		return nil
	}
	return r.SendMessage(ctx, adapter.SendMessageParams{
		ChatID:  chatID,
		Text:    reply.Text,
		Buttons: reply.Buttons,
	})
}

func toInlineKeyboard(rows [][]adapter.InlineButton) (tgbotapi.InlineKeyboardMarkup, bool) {
	if len(rows) == 0 {
		return tgbotapi.InlineKeyboardMarkup{}, false
	}
	var kbRows [][]tgbotapi.InlineKeyboardButton
	for _, row := range rows {
		var kbRow []tgbotapi.InlineKeyboardButton
		for _, b := range row {
			switch {
			case b.URL != "":
				kbRow = append(kbRow, tgbotapi.NewInlineKeyboardButtonURL(b.Text, b.URL))
			default:
				kbRow = append(kbRow, tgbotapi.NewInlineKeyboardButtonData(b.Text, b.Data))
			}
		}
		kbRows = append(kbRows, kbRow)
	}
	return tgbotapi.NewInlineKeyboardMarkup(kbRows...), true
}
