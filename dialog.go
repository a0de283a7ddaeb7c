package main

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	tg "github.com/semog/go-bot-api/v4"
	"k8s.io/klog"
)

// "3." removes candidate 3, "3. Jane Doe" renames it.
var candidateEditRe = regexp.MustCompile(`^([0-9]+)\.[ \t]*(.*)$`)

func handleDialog(bot messenger, update tg.Update, st Store) error {
	userID, err := getUpdateUserID(update)
	if err != nil {
		return err
	}
	msg := update.Message
	chatID := msg.Chat.ID

	switch msg.Command() {
	case locAboutCommand:
		_, err = bot.Send(tg.NewMessage(chatID, locAboutMessage))
		if err != nil {
			return fmt.Errorf("could not send message: %v", err)
		}
		return nil
	case locBallotCommand:
		return handleBallotCommand(bot, chatID, userID, st, msg.CommandArguments())
	case locResultsCommand:
		return handleResultsCommand(bot, chatID, userID, st, msg.CommandArguments())
	case locEditCommand:
		return handleEditCommand(bot, chatID, userID, st)
	case locStartCommand:
		args := strings.TrimSpace(msg.CommandArguments())
		if strings.HasPrefix(args, startBallotPrefix) {
			return handleBallotCommand(bot, chatID, userID, st, strings.TrimPrefix(args, startBallotPrefix))
		}
		if args == qryCreateNewPoll {
			return sendNewContestMessage(bot, update, st)
		}
		if err = st.SaveState(userID, -1, ohHi); err != nil {
			return err
		}
		_, err = sendMainMenuMessage(bot, userID)
		return err
	}

	state, pollID, err := st.GetState(userID)
	if err != nil {
		// could not retrieve state -> state is zero
		state = ohHi
		klog.Infof("could not get state from database: %v\n", err)
	}

	switch state {
	case waitingForContest:
		p := &poll{
			Contest: strings.TrimSpace(msg.Text),
			UserID:  userID,
		}
		pollID, err = st.SavePoll(p)
		if err != nil {
			return fmt.Errorf("could not save poll: %v", err)
		}
		_, err = bot.Send(tg.NewMessage(chatID, fmt.Sprintf(locGotContest, contestName(p))))
		if err != nil {
			return fmt.Errorf("could not send message: %v", err)
		}
		return st.SaveState(userID, pollID, waitingForCandidate)
	case waitingForCandidate:
		return handleCandidateMessage(bot, chatID, userID, pollID, st, msg.Text)
	case pollDone:
		p, err := st.GetUserPoll(pollID, userID)
		if err != nil {
			return fmt.Errorf("could not get poll: %v", err)
		}
		_, err = sendEditMessage(bot, chatID, p)
		if err != nil {
			return fmt.Errorf("could not send message: %v", err)
		}
		return nil
	}

	_, err = sendMainMenuMessage(bot, userID)
	if err != nil {
		return fmt.Errorf("could not send main menu message: %v", err)
	}
	return nil
}

func sendNewContestMessage(bot messenger, update tg.Update, st Store) error {
	userID, err := getUpdateUserID(update)
	if err != nil {
		return err
	}
	if update.CallbackQuery != nil {
		sendToastMessage(bot, update, "")
	}
	_, err = bot.Send(tg.NewMessage(int64(userID), locNewContest))
	if err != nil {
		return fmt.Errorf("could not send message: %v", err)
	}

	err = st.SaveState(userID, -1, waitingForContest)
	if err != nil {
		return fmt.Errorf("could not change state to waiting for contest: %v", err)
	}
	return nil
}

// handleCandidateMessage adds, renames or removes a candidate of the poll being edited.
func handleCandidateMessage(bot messenger, chatID int64, userID int, pollID int, st Store, text string) error {
	p, err := st.GetUserPoll(pollID, userID)
	if err != nil {
		return fmt.Errorf("could not get poll: %v", err)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	c := candidate{PollID: pollID, Text: text}
	isDelete := false
	if m := candidateEditRe.FindStringSubmatch(text); m != nil {
		num, err := strconv.Atoi(m[1])
		if err != nil {
			return fmt.Errorf("could not convert string to number: %v", err)
		}
		if num < 1 || num > len(p.Candidates) {
			return fmt.Errorf("candidate out of range for edit or delete: %v", num)
		}
		c.ID = p.Candidates[num-1].ID
		c.Text = strings.TrimSpace(m[2])
		isDelete = c.Text == ""
	} else if len(p.Candidates) >= maxCandidates {
		_, err = bot.Send(tg.NewMessage(chatID, fmt.Sprintf(locTooManyCandidates, maxCandidates)))
		return err
	}

	if isDelete {
		err = st.DeleteCandidates([]candidate{c})
	} else {
		err = st.SaveCandidates([]candidate{c})
	}
	if err != nil {
		return fmt.Errorf("could not save candidate: %v", err)
	}

	if err := enqueueAllBallots(st, pollID); err != nil {
		klog.Infof("could not schedule ballot updates: %v", err)
	}
	// Refresh the poll
	p, err = st.GetUserPoll(pollID, userID)
	if err != nil {
		return fmt.Errorf("could not get poll: %v", err)
	}
	_, err = sendInterMessage(bot, chatID, p)
	if err != nil {
		return fmt.Errorf("could not send inter message: %v", err)
	}
	return nil
}

func handleEditCommand(bot messenger, chatID int64, userID int, st Store) error {
	_, pollID, err := st.GetState(userID)
	var p *poll
	if err == nil {
		p, err = st.GetUserPoll(pollID, userID)
	}
	if err != nil {
		klog.Infof("could not get poll to edit for user %d: %v", userID, err)
		_, err = bot.Send(tg.NewMessage(chatID, locNoPollToEdit))
		return err
	}
	_, err = sendEditMessage(bot, chatID, p)
	if err != nil {
		return fmt.Errorf("could not send edit message: %v", err)
	}
	return st.SaveState(userID, p.ID, pollDone)
}

// handleBallotCommand sends a voter their personal ballot.
func handleBallotCommand(bot messenger, chatID int64, userID int, st Store, args string) error {
	args = strings.TrimSpace(args)
	pollID, err := strconv.Atoi(args)
	if err != nil {
		_, err = bot.Send(tg.NewMessage(chatID, locUsageBallot))
		return err
	}

	p, err := st.GetPoll(pollID)
	if err != nil {
		klog.Infof("could not get poll #%d: %v", pollID, err)
		_, err = bot.Send(tg.NewMessage(chatID, fmt.Sprintf(locNoSuchPoll, args)))
		return err
	}
	if len(p.Candidates) == 0 {
		_, err = bot.Send(tg.NewMessage(chatID, locNoCandidates))
		return err
	}

	values, err := st.GetSelectors(pollID, userID)
	if err != nil {
		return fmt.Errorf("could not get selectors: %v", err)
	}
	s, err := p.state(values)
	if err != nil {
		return fmt.Errorf("could not build ballot state: %v", err)
	}
	sent, err := sendBallotMessage(bot, chatID, p, s)
	if err != nil {
		return fmt.Errorf("could not send ballot: %v", err)
	}
	return st.AddBallotMsg(pollID, ballotMsg{UserID: userID, ChatID: chatID, MessageID: sent.MessageID})
}

// handleResultsCommand counts a poll for its owner.
func handleResultsCommand(bot messenger, chatID int64, userID int, st Store, args string) error {
	fields := strings.Fields(args)
	seats := defaultSeats
	var pollID int
	var err error
	if len(fields) > 0 {
		pollID, err = strconv.Atoi(fields[0])
	}
	if err == nil && len(fields) > 1 {
		seats, err = strconv.Atoi(fields[1])
	}
	if len(fields) == 0 || len(fields) > 2 || err != nil || seats < 1 {
		_, err = bot.Send(tg.NewMessage(chatID, locUsageResults))
		return err
	}

	p, err := st.GetUserPoll(pollID, userID)
	if err != nil {
		klog.Infof("could not get poll #%d of user %d: %v", pollID, userID, err)
		_, err = bot.Send(tg.NewMessage(chatID, fmt.Sprintf(locNoSuchPoll, fields[0])))
		return err
	}
	voters, err := st.GetAllSelectors(pollID)
	if err != nil {
		return fmt.Errorf("could not get selectors: %v", err)
	}
	res, err := countPoll(p, voters, seats)
	if err != nil {
		return fmt.Errorf("could not count poll #%d: %v", pollID, err)
	}

	msg := tg.NewMessage(chatID, buildResultsListing(p, res, seats))
	msg.ParseMode = tg.ModeHTML
	_, err = bot.Send(msg)
	if err != nil {
		return fmt.Errorf("could not send results: %v", err)
	}
	return nil
}
