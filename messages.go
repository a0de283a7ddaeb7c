package main

import (
	"fmt"
	"html"
	"sort"
	"strconv"
	"strings"

	"github.com/kyokomi/emoji"
	tg "github.com/semog/go-bot-api/v4"
	cmn "github.com/semog/go-common"
	"github.com/semog/rankbot/ballot"
	"k8s.io/klog"
)

// messenger is the part of the bot API the handlers use.
type messenger interface {
	Send(c tg.Chattable) (tg.Message, error)
	AnswerCallbackQuery(config tg.CallbackConfig) (tg.APIResponse, error)
	AnswerInlineQuery(config tg.InlineConfig) (tg.APIResponse, error)
}

// defaultContest names the contest of polls created without one.
var defaultContest = "representatives"

func getUpdateUserID(update tg.Update) (int, error) {
	if update.Message != nil && update.Message.From != nil {
		return update.Message.From.ID, nil
	}
	if update.CallbackQuery != nil && update.CallbackQuery.From != nil {
		return update.CallbackQuery.From.ID, nil
	}
	return 0, fmt.Errorf("invalid update info: no valid user ID found")
}

func contestName(p *poll) string {
	if strings.TrimSpace(p.Contest) == "" {
		return defaultContest
	}
	return p.Contest
}

func sendMainMenuMessage(bot messenger, userID int) (tg.Message, error) {
	markup := tg.NewInlineKeyboardMarkup(tg.NewInlineKeyboardRow(
		tg.NewInlineKeyboardButtonData(locCreateNewPoll, qryCreatePoll)))
	msg := tg.NewMessage(int64(userID), locMainMenu)
	msg.ReplyMarkup = markup
	return bot.Send(msg)
}

func sendInterMessage(bot messenger, chatID int64, p *poll) (tg.Message, error) {
	pollDoneButton := tg.NewInlineKeyboardButtonData(
		locPollDoneButton, fmt.Sprintf("%s:%d", qryPollDone, p.ID))
	markup := tg.NewInlineKeyboardMarkup(tg.NewInlineKeyboardRow(pollDoneButton))

	msg := tg.NewMessage(chatID, locAddedCandidate+getFormattedPreviewPoll(p))
	msg.ParseMode = tg.ModeHTML
	msg.ReplyMarkup = markup
	return bot.Send(msg)
}

func sendEditMessage(bot messenger, chatID int64, p *poll) (tg.Message, error) {
	msg := tg.NewMessage(chatID, getSelectedPollHeader(p)+getFormattedPreviewPoll(p))
	msg.ParseMode = tg.ModeHTML
	msg.ReplyMarkup = buildEditMarkup(p)
	return bot.Send(msg)
}

func sendBallotMessage(bot messenger, chatID int64, p *poll, s ballot.State) (tg.Message, error) {
	msg := tg.NewMessage(chatID, buildBallotText(p, ballot.Summarize(s)))
	msg.ParseMode = tg.ModeHTML
	if !p.isClosed() {
		msg.ReplyMarkup = buildBallotMarkup(p, s)
	}
	return bot.Send(msg)
}

func getSelectedPollHeader(p *poll) string {
	return fmt.Sprintf(locCurrentlySelectedPoll, p.ID) + fmt.Sprintf(locShareBallot, p.ID, p.ID)
}

func getFormattedPreviewPoll(p *poll) string {
	body := fmt.Sprintf("<pre>\n%s\n%s\n", html.EscapeString(contestName(p)), lineSep)
	for i, c := range p.Candidates {
		body += fmt.Sprintf("%d. %s", i+1, html.EscapeString(c.Text)) + "\n"
	}
	body += "</pre>\n\n"
	return body
}

// buildBallotText renders the summary of one voter's ballot as Telegram HTML.
func buildBallotText(p *poll, sum ballot.Summary) string {
	contest := html.EscapeString(contestName(p))
	text := fmt.Sprintf("<b>%s</b>\n%s\n", contest, lineSep)

	switch sum.Kind {
	case ballot.Declined:
		text += fmt.Sprintf(locDeclined, contest)
	case ballot.Spoiled:
		text += emoji.Sprint(":no_entry_sign:") + fmt.Sprintf(locSpoiled, contest, ballot.Because(sum.Reason))
	default:
		text += fmt.Sprintf(locYourBallot, contest)
		for i, c := range sum.Choices {
			text += fmt.Sprintf("\n%d. %s", i+1, html.EscapeString(c.Label))
		}
		if sum.Truncated() {
			text += "\n\n" + emoji.Sprint(":warning:") + fmt.Sprintf(locMoreRanked, ballot.Because(sum.Reason))
		}
	}

	if p.isClosed() {
		text += "\n\n" + emoji.Sprint(":lock:") + locPollIsClosed
	}
	return text
}

// nextRank is what pressing a candidate's button sets it to: one rank further
// down, or unranked past the last rank. An unranked candidate goes behind the
// current last choice.
func nextRank(s ballot.State, sel ballot.Selector) ballot.Rank {
	if n, ok := sel.Rank.Value(); ok {
		if n >= s.Len() {
			return ballot.Unranked
		}
		return ballot.RankOf(n + 1)
	}
	last := 0
	for _, other := range s.Selectors() {
		if n, ok := other.Rank.Value(); ok && n > last {
			last = n
		}
	}
	return ballot.RankOf(cmn.Mini(last+1, s.Len()))
}

func shortLabel(label string) string {
	runes := []rune(label)
	n := cmn.Mini(len(runes), maxButtonLabel)
	if n == len(runes) {
		return label
	}
	return string(runes[:n-1]) + "…"
}

// buildBallotMarkup has one row per candidate: the first button moves the
// candidate to its next rank, the second clears it.
func buildBallotMarkup(p *poll, s ballot.State) *tg.InlineKeyboardMarkup {
	rows := make([][]tg.InlineKeyboardButton, 0, s.Len())
	for _, sel := range s.Selectors() {
		id := candidateID(sel.ID)
		badge := "·"
		if n, ok := sel.Rank.Value(); ok {
			badge = strconv.Itoa(n) + "."
		}
		set := tg.NewInlineKeyboardButtonData(
			fmt.Sprintf("%s %s", badge, shortLabel(sel.Label)),
			p.fmtRankQuery(id, nextRank(s, sel).String()))
		reset := tg.NewInlineKeyboardButtonData(
			emoji.Sprint(":x:"),
			p.fmtRankQuery(id, ballot.Unranked.String()))
		rows = append(rows, tg.NewInlineKeyboardRow(set, reset))
	}
	markup := tg.NewInlineKeyboardMarkup(rows...)
	return &markup
}

func buildEditMarkup(p *poll) *tg.InlineKeyboardMarkup {
	buttonClosedText := locToggleOpen
	if p.isClosed() {
		buttonClosedText = locToggleClosed
	}
	buttonClosed := tg.NewInlineKeyboardButtonData(buttonClosedText, p.fmtQuery(qryToggleClosed))
	buttonAdd := tg.NewInlineKeyboardButtonData(locAddCandidatesButton, p.fmtQuery(qryAddCandidates))

	contest := contestName(p)
	buttonShare := tg.InlineKeyboardButton{
		Text:              locInlineInsertPoll,
		SwitchInlineQuery: &contest,
	}
	buttonNew := tg.NewInlineKeyboardButtonData(locCreateNewPoll, qryCreatePoll)

	markup := tg.NewInlineKeyboardMarkup(
		tg.NewInlineKeyboardRow(buttonClosed, buttonAdd),
		tg.NewInlineKeyboardRow(buttonShare, buttonNew),
	)
	return &markup
}

func candidateLabels(p *poll) map[string]string {
	labels := make(map[string]string, len(p.Candidates))
	for _, c := range p.Candidates {
		labels[strconv.Itoa(c.ID)] = c.Text
	}
	return labels
}

// buildResultsListing renders a count round by round, best first in each round.
func buildResultsListing(p *poll, res ballot.Result, seats int) string {
	labels := candidateLabels(p)
	label := func(id string) string {
		if l, ok := labels[id]; ok {
			return html.EscapeString(l)
		}
		return "#" + id
	}

	listing := fmt.Sprintf("<b>%s</b>\n%s\n", html.EscapeString(contestName(p)), lineSep)
	listing += fmt.Sprintf(locResultsHeader, html.EscapeString(contestName(p)), res.Ballots, seats, res.Quota)
	for i, r := range res.Rounds {
		listing += fmt.Sprintf(locRoundHeader, i+1)
		ids := make([]string, 0, len(r.Tally))
		for id := range r.Tally {
			ids = append(ids, id)
		}
		sort.Slice(ids, func(a, b int) bool {
			if r.Tally[ids[a]] != r.Tally[ids[b]] {
				return r.Tally[ids[a]] > r.Tally[ids[b]]
			}
			return ids[a] < ids[b]
		})
		for _, id := range ids {
			listing += fmt.Sprintf("%s: %.2f\n", label(id), r.Tally[id])
		}
		if r.Elected != "" {
			listing += emoji.Sprintf(locElected, label(r.Elected))
		}
		if r.Eliminated != "" {
			listing += emoji.Sprintf(locEliminated, label(r.Eliminated))
		}
	}
	if res.Exhausted {
		listing += locExhausted
	}
	if len(res.Elected) > 0 {
		listing += "\n"
		for _, id := range res.Elected {
			listing += emoji.Sprint(":star:") + label(id) + "\n"
		}
	}
	return listing
}

func sendToastMessage(bot messenger, update tg.Update, msg string) error {
	_, err := bot.AnswerCallbackQuery(tg.NewCallback(update.CallbackQuery.ID, msg))
	if err != nil {
		klog.Infof("could not send toast message: %v\n", err)
	}
	return nil
}
