package main

import (
	"fmt"
	"strconv"

	tg "github.com/semog/go-bot-api/v4"
	"k8s.io/klog"
)

// handleInlineQuery offers the user's polls for posting into a chat. The
// posted message links voters to their personal ballot in a private chat.
func handleInlineQuery(bot messenger, update tg.Update, st Store, botName string) error {
	polls, err := st.GetPollsByUser(update.InlineQuery.From.ID)
	if err != nil {
		return fmt.Errorf("could not get polls for user: %v", err)
	}

	results := make([]interface{}, 0, len(polls))
	for _, p := range polls {
		if len(p.Candidates) == 0 {
			continue
		}
		klog.V(2).Infof("offering poll #%d inline", p.ID)
		article := tg.NewInlineQueryResultArticleHTML(strconv.Itoa(p.ID), contestName(p), getFormattedPreviewPoll(p))
		markup := tg.NewInlineKeyboardMarkup(tg.NewInlineKeyboardRow(
			tg.NewInlineKeyboardButtonURL(locOpenBallotButton, ballotLink(botName, p.ID))))
		article.ReplyMarkup = &markup
		article.Description = locInlineInsertPoll
		results = append(results, article)
	}
	inlineConfig := tg.InlineConfig{
		InlineQueryID:     update.InlineQuery.ID,
		Results:           results,
		IsPersonal:        true,
		CacheTime:         0,
		SwitchPMText:      locCreateNewPoll,
		SwitchPMParameter: qryCreateNewPoll,
	}

	_, err = bot.AnswerInlineQuery(inlineConfig)
	if err != nil {
		return fmt.Errorf("could not answer inline query: %v", err)
	}
	return nil
}

func ballotLink(botName string, pollID int) string {
	return fmt.Sprintf("https://t.me/%s?start=%s%d", botName, startBallotPrefix, pollID)
}
