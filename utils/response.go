package utils

import (
	"log"

	"github.com/bwmarrin/discordgo"
)

const (
	ColorGreen = 0x57F287
	ColorRed   = 0xED4245
)

// DeferResponse defers an interaction response, optionally making it ephemeral.
func DeferResponse(s *discordgo.Session, i *discordgo.InteractionCreate, ephemeral bool) error {
	response := &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
	}
	if ephemeral {
		response.Data = &discordgo.InteractionResponseData{
			Flags: discordgo.MessageFlagsEphemeral,
		}
	}
	return s.InteractionRespond(i.Interaction, response)
}

// SendErrorResponse sends an ephemeral error message.
func SendErrorResponse(s *discordgo.Session, i *discordgo.InteractionCreate, message string) {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: message,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		log.Printf("Error sending error response: %v", err)
	}
}

// SendFollowUpSuccess edits the deferred response into a green embed.
func SendFollowUpSuccess(s *discordgo.Session, i *discordgo.Interaction, message string) {
	sendFollowUpEmbed(s, i, message, ColorGreen)
}

// SendFollowUpError edits the deferred response into a red embed.
func SendFollowUpError(s *discordgo.Session, i *discordgo.Interaction, message string) {
	sendFollowUpEmbed(s, i, message, ColorRed)
}

func sendFollowUpEmbed(s *discordgo.Session, i *discordgo.Interaction, message string, color int) {
	embeds := []*discordgo.MessageEmbed{
		{Description: message, Color: color},
	}
	_, err := s.InteractionResponseEdit(i, &discordgo.WebhookEdit{
		Embeds: &embeds,
	})
	if err != nil {
		log.Printf("Error sending follow-up message: %v", err)
	}
}
