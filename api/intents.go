package api

import "github.com/bwmarrin/discordgo"

// Intents collects the gateway intents the bot needs.
type Intents struct {
	needed []discordgo.Intent
}

func (in *Intents) Need(neededIntents ...discordgo.Intent) {
	for _, i := range neededIntents {
		add := true
		for _, v := range in.needed {
			if v == i {
				add = false
				break
			}
		}
		if add {
			in.needed = append(in.needed, i)
		}
	}
}

func (in *Intents) Value() discordgo.Intent {
	var intent discordgo.Intent

	for _, v := range in.needed {
		intent = intent | v
	}

	return intent
}
