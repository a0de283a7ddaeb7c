package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	tg "github.com/semog/go-bot-api/v4"
	"k8s.io/klog"
)

var ballotsToRenderConstRate = make(chan renderKey, 10)
var ballotsToRender = newUniqueChan[renderKey](1000)

func main() {
	klog.InitFlags(nil)
	token := flag.String("token", "Ask @BotFather", "telegram bot token")
	debug := flag.Bool("debug", false, "Show debug information")
	dbFile := flag.String("db", "rankbot.db", "sqlite database file")
	contest := flag.String("contest", defaultContest, "contest name for ballots created without one")
	renderInterval := flag.Duration("render-interval", 400*time.Millisecond, "pause between ballot message edits")
	flag.Parse()

	if *token == "Ask @BotFather" {
		klog.Fatal("token flag required. Go ask @BotFather.")
	}
	defaultContest = *contest

	st, err := newSQLStore(*dbFile)
	if err != nil {
		klog.Fatal(err)
	}
	defer st.Close()

	klog.Info("Connecting...")
	tg.SetLogger(&klogAdapter{})
	bot, err := tg.NewBotAPI(*token)
	if err != nil {
		klog.Errorf("Could not connect to bot: %v", err)
		os.Exit(2)
	}
	bot.Debug = *debug

	if err := run(bot, st, *renderInterval); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(2)
	}
}

func newTimer() func() {
	start := time.Now()
	return func() {
		klog.V(2).Infoln("This action took: ", time.Since(start))
	}
}

func run(bot *tg.BotAPI, st Store, renderInterval time.Duration) error {
	// fill render channel with constant rate
	go func() {
		for {
			time.Sleep(renderInterval)
			ballotsToRenderConstRate <- ballotsToRender.dequeue()
		}
	}()

	klog.Infof("Authorized on account %s", bot.Self.UserName)

	u := tg.NewUpdate(st.GetUpdateOffset())
	u.Timeout = 60

	updates, err := bot.GetUpdatesChan(u)
	if err != nil {
		return fmt.Errorf("could not prepare update channel: %v", err)
	}

	for {
		select {
		case key := <-ballotsToRenderConstRate:
			err := renderBallotMessages(bot, key, st)
			if err != nil {
				klog.Infof("Could not update ballot of user %d in poll #%d: %v", key.UserID, key.PollID, err)
			}
		case update := <-updates:
			stopTimer := newTimer()
			handleUpdate(bot, update, st, bot.Self.UserName)
			stopTimer()

			if err := st.SaveUpdateOffset(update.UpdateID + 1); err != nil {
				klog.Infof("could not save update offset: %v", err)
			}
		}
	}
}

func handleUpdate(bot messenger, update tg.Update, st Store, botName string) {
	// INLINE QUERIES
	if update.InlineQuery != nil {
		klog.Infof("InlineQuery from [%s]: %s", update.InlineQuery.From.UserName, update.InlineQuery.Query)

		if err := st.SaveUser(update.InlineQuery.From); err != nil {
			klog.Infof("could not save user: %v", err)
		}
		if err := handleInlineQuery(bot, update, st, botName); err != nil {
			klog.Infof("could not handle inline query: %v", err)
		}
		return
	}

	// CALLBACK QUERIES
	if update.CallbackQuery != nil {
		klog.Infof("CallbackQuery from [%s]: %s", update.CallbackQuery.From.UserName, update.CallbackQuery.Data)

		if err := st.SaveUser(update.CallbackQuery.From); err != nil {
			klog.Infof("could not save user: %v", err)
		}
		if err := handleCallbackQuery(bot, update, st); err != nil {
			klog.Infof("could not handle callback query: %v", err)
		}
		return
	}

	if update.Message == nil || update.Message.From == nil {
		return
	}

	if err := st.SaveUser(update.Message.From); err != nil {
		klog.Infof("could not save user: %v", err)
	}

	// Messages
	klog.Infof("Message from [%s] %s", update.Message.From.UserName, update.Message.Text)

	// Conversations
	if err := handleDialog(bot, update, st); err != nil {
		klog.Infof("could not handle dialog: %v", err)
	}
}
