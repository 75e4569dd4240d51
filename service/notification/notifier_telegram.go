package notification

import (
	"context"
	"sync"

	"github.com/darkkaiser/price-hunter-server/pkg/errors"
	applog "github.com/darkkaiser/price-hunter-server/pkg/log"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// notifyRequestBufferSize 발송 대기 큐의 크기입니다.
const notifyRequestBufferSize = 10

// telegramNotifier Telegram Bot API를 사용하는 알림 채널입니다.
// 발송 전용으로 동작하며, 사용자 명령(Command) 수신은 처리하지 않습니다.
type telegramNotifier struct {
	notifier

	chatID int64

	bot *tgbotapi.BotAPI
}

// newTelegramNotifier Telegram Notifier 객체를 생성한다.
func newTelegramNotifier(id NotifierID, botToken string, chatID int64) (NotifierHandler, error) {
	bot, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrNotificationFailed, "텔레그램 봇 생성이 실패하였습니다.")
	}

	return &telegramNotifier{
		notifier: notifier{
			id: id,

			supportsHTML: true,

			requestC: make(chan *notifyRequest, notifyRequestBufferSize),
		},

		chatID: chatID,

		bot: bot,
	}, nil
}

// Run 발송 대기 큐를 소비하여 텔레그램으로 메시지를 발송합니다.
func (n *telegramNotifier) Run(notificationStopCtx context.Context, notificationStopWaiter *sync.WaitGroup) {
	defer notificationStopWaiter.Done()

	applog.WithComponent(component).Debugf("'%s' Telegram Notifier의 작업이 시작됨(Authorized on account %s)", n.ID(), n.bot.Self.UserName)

	for {
		select {
		case request := <-n.requestC:
			messageConfig := tgbotapi.NewMessage(n.chatID, request.message)
			messageConfig.ParseMode = tgbotapi.ModeHTML

			if _, err := n.bot.Send(messageConfig); err != nil {
				applog.WithComponent(component).Errorf("알림메시지 발송이 실패하였습니다.(NotifierID:%s, error:%s)", n.ID(), err)
			}

		case <-notificationStopCtx.Done():
			close(n.requestC)

			n.bot = nil
			n.requestC = nil

			applog.WithComponent(component).Debugf("'%s' Telegram Notifier의 작업이 중지됨", n.ID())

			return
		}
	}
}
