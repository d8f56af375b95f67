package messaging

import (
	"math/rand/v2"

	"github.com/zulandar/wardroom/internal/models"
)

// reply is a canned counterpart response and the reaction glyph it carries.
type reply struct {
	text     string
	reaction string
}

var (
	supportReply   = reply{text: "Got it! Thanks for the update 👍", reaction: "👍"}
	emergencyReply = reply{text: "Message received and logged. 🚨", reaction: "🚨"}
	teamReplies    = []reply{
		{text: "Thanks for letting us know! 😊", reaction: "😊"},
		{text: "Understood 👍", reaction: "👍"},
		{text: "Copy that! ✅", reaction: "✅"},
		{text: "Good to know 🙂", reaction: "🙂"},
	}
)

// pickReply chooses the counterpart response for room. ok is false for
// categories that never reply.
func pickReply(room models.ChatRoom, rnd *rand.Rand) (r reply, sender string, ok bool) {
	switch room.Category {
	case models.RoomSupport:
		return supportReply, "Admin", true
	case models.RoomTeam, models.RoomShift:
		r = teamReplies[rnd.IntN(len(teamReplies))]
		others := otherParticipants(room.Participants)
		if len(others) > 0 {
			sender = others[rnd.IntN(len(others))]
		}
		return r, sender, true
	case models.RoomEmergency:
		return emergencyReply, "Emergency System", true
	}
	return reply{}, "", false
}

func otherParticipants(participants []string) []string {
	out := make([]string, 0, len(participants))
	for _, p := range participants {
		if p != models.LocalUser {
			out = append(out, p)
		}
	}
	return out
}
