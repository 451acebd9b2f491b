package notifier

import (
	"fmt"
	"log"

	"github.com/bwmarrin/discordgo"
	"github.com/clubstack/booking-api/internal/models"
)

type Notifier interface {
	NotifyBooking(member models.Member, event models.Event, category models.Category, status string) error
}

type DiscordNotifier struct {
	session   *discordgo.Session
	channelID string
}

func NewDiscordNotifier(session *discordgo.Session, channelID string) *DiscordNotifier {
	return &DiscordNotifier{
		session:   session,
		channelID: channelID,
	}
}

func (n *DiscordNotifier) NotifyBooking(member models.Member, event models.Event, category models.Category, status string) error {
	if n.session == nil {
		return fmt.Errorf("discord session is nil")
	}
	if n.channelID == "" {
		return fmt.Errorf("discord channel ID is empty")
	}

	verb := "booked a seat in"
	switch status {
	case models.BookingUsed:
		verb = "checked in to"
	case models.BookingCancelled:
		verb = "cancelled their seat in"
	}

	message := fmt.Sprintf("🎟️ **Booking Update**\n**Member:** %s (<@%s>)\n**Status:** %s **%s / %s**\n**Starts:** %s",
		member.Username,
		member.DiscordID,
		verb,
		event.Name,
		category.Name,
		event.StartsAt.Format("2006-01-02 15:04"),
	)

	_, err := n.session.ChannelMessageSend(n.channelID, message)
	if err != nil {
		log.Printf("Failed to send discord message: %v", err)
		return err
	}

	return nil
}
