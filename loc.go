package main

const (
	locGotContest            = "OK, now send me the candidates of \"%s\", one per message."
	locStartCommand          = "start"
	locEditCommand           = "edit"
	locBallotCommand         = "ballot"
	locResultsCommand        = "results"
	locAboutCommand          = "about"
	locCreateNewPoll         = "create new ballot"
	locInlineInsertPoll      = "insert ballot into chat"
	locOpenBallotButton      = "open my ballot"
	locNewContest            = "Great! What is this ballot for? Send the name of the contest, e.g. \"first-year representatives\"."
	locMainMenu              = "I can help you run ranked-choice ballots.\n\nWhat do you want to do?"
	locAboutMessage          = "You can find me on github:\nhttps://github.com/semog/rankbot"
	locPollDoneButton        = "done"
	locCurrentlySelectedPoll = "Ballot #%d\n"
	locShareBallot           = "Voters open their ballot with /ballot %d\nYou count it with /results %d [seats]\n\n"
	locAddedCandidate        = "You can add more candidates by sending messages each containing one candidate. Send \"N.\" to remove candidate N or \"N. name\" to rename it. If you are done, please push the 'done' button.\n\nPreview:\n"
	locAddCandidatesButton   = "add candidates"
	locToggleOpen            = "close ballot"
	locToggleClosed          = "reopen ballot"
	locNoPollToEdit          = "Sorry, I could not find a ballot to edit."
	locNoSuchPoll            = "Sorry, I could not find ballot #%s."
	locNoCandidates          = "This ballot has no candidates yet."
	locTooManyCandidates     = "A ballot can have at most %d candidates."
	locUsageBallot           = "Usage: /ballot <number>"
	locUsageResults          = "Usage: /results <number> [seats]"
	locPollIsClosed          = "This ballot is closed."
	locRanked                = "%s is now your choice #%s."
	locRankedBumped          = "%s is now your choice #%s, %d other choice(s) moved down."
	locUnranked              = "%s is no longer ranked."
	locErrUpdatingPoll       = "Sorry, I could not update your ballot."
	locInvalidUser           = "Sorry, I could not tell who you are."
	locYourBallot            = "Your ballot for %s:"
	locDeclined              = "You have declined to vote for any %s."
	locSpoiled               = "Your ballot for %s is spoiled because %s"
	locMoreRanked            = "You ranked more candidates, but they will not be considered because %s"
	locResultsHeader         = "Results for %s\n%d valid ballot(s), %d seat(s), quota %d\n"
	locRoundHeader           = "\nRound %d\n"
	locElected               = ":trophy:elected: %s\n"
	locEliminated            = ":x:eliminated: %s\n"
	locExhausted             = "\nBallots ran out before every seat was filled.\n"
)

/*
Following is the command menu for constructing the bot with @BotFather.
Use the /setcommands command and reply with the following list of commands.
---------------------
start - Start the bot.
ballot - Open your ballot.
edit - Edit your current ballot.
results - Count a ballot you created.
about - About this bot.
*/

/*
Description text:
-------------------------
This bot runs ranked-choice ballots in Telegram. Rank candidates with the
buttons and see right away which of your choices will count.
*/
