package http

import (
	"html"
	"net/http"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/boardgame-tracker/internal/commands"
	"github.com/slack-go/slack"
)

// replyCommand forwards its text to the active dialogue, since Slack only
// delivers slash commands to us.
const replyCommand = "/reply"

const noDialogueHint = "No game is being recorded. Start one with /add or /add_auto."

var slackMarkup = strings.NewReplacer("<b>", "*", "</b>", "*")

// SlackCommandHandler serves every slash command through the chat router.
func (s *Server) SlackCommandHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cmd, err := slack.SlashCommandParse(r)
		if err != nil {
			http.Error(w, "Error parsing form", http.StatusBadRequest)
			return
		}
		log.Info("Received slash command", "command", cmd.Command, "user", cmd.UserName, "channel", cmd.ChannelID)

		req := commands.Request{
			Key:  "slack:" + cmd.ChannelID + ":" + cmd.UserID,
			Text: slashText(cmd),
		}
		reply, err := s.Commands.Handle(r.Context(), req)
		if err != nil {
			log.Error("Failed to handle slash command", "command", cmd.Command, "error", err)
			http.Error(w, "Failed to handle command", http.StatusInternalServerError)
			return
		}

		var msg any
		if reply.Leaderboards != nil {
			msg, err = s.Notifier.FormatLeaderboardResponse(*reply.Leaderboards)
		} else {
			msg, err = s.Notifier.FormatTextResponse(slackText(reply))
		}
		if err != nil {
			log.Error("Failed to format slash command reply", "command", cmd.Command, "error", err)
			http.Error(w, "Failed to format reply", http.StatusInternalServerError)
			return
		}
		respondWithSlackMsg(w, msg)
	}
}

func slashText(cmd slack.SlashCommand) string {
	if cmd.Command == replyCommand {
		return cmd.Text
	}
	return strings.TrimSpace(cmd.Command + " " + cmd.Text)
}

// slackText renders a chat reply as Slack mrkdwn. Buttons become a list of
// entries with the text command that removes them.
func slackText(reply commands.Reply) string {
	if reply.Text == "" {
		return noDialogueHint
	}
	text := reply.Text
	if reply.HTML {
		text = html.UnescapeString(slackMarkup.Replace(text))
	}
	if len(reply.Buttons) == 0 {
		return text
	}

	lines := []string{text}
	for _, b := range reply.Buttons {
		lines = append(lines, "• "+b.Label+"  `"+removeCommand(b.Data)+"`")
	}
	return strings.Join(lines, "\n")
}

func removeCommand(data string) string {
	if id, ok := strings.CutPrefix(data, "game_"); ok {
		return "/remove game " + id
	}
	if id, ok := strings.CutPrefix(data, "adj_"); ok {
		return "/remove adj " + id
	}
	return data
}
