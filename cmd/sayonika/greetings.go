package main

import (
	"fmt"
	"math/rand/v2"

	"github.com/charmbracelet/lipgloss"
)

var clubGreetings = [...]string{
	"The clubroom is open. You are standing in the hallway.",
	"Somebody just uploaded a mod with three endings. You've seen none of them.",
	"Sayori says hi. She also says you should log in.",
	"Your download queue misses you. It told me so.",
	"Four mods got approved this morning. Zero were yours. Coincidence?",
	"The cupcakes are fresh. The mods are fresher.",
	"A new horror mod dropped at 3am. The comments are... concerned.",
	"Someone necro'd a two-year-old comment thread and honestly? Great points.",
	"There's a translation mod for a language you've never heard of. It's lovely.",
	"Monika would have logged in by now. Just saying.",
	"Your favorites list hasn't grown in a while. The mods have.",
	"A first-time creator just shipped their first mod. Go be nice to them.",
	"The review queue is empty. A moderator somewhere is finally sleeping.",
	"You have drafts. Unsent drafts. They yearn.",
	"Natsuki rated your taste in mods. You don't want to know.",
	"The poetry minigame mod got an update. It rhymes now. Mostly.",
	"Someone wrote 40,000 words of mod description. The mod is 10 minutes long.",
	"A romance mod and a horror mod got uploaded within the same minute. Fate?",
	"Yuri recommends the new atmospheric mod. She used the word 'exquisite' twice.",
	"The festival is always tomorrow. The mods are available today.",
	"Your profile bio still says 'just browsing'. It has said that for months.",
	"New achievement just dropped. You are zero percent of the way there.",
	"Somebody favorited a mod you commented on. The circle of life.",
	"The club president has noticed your absence. The club president notices everything.",
}

func printHelp() {
	title := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#ff8fb8")).
		Bold(true).
		Render("S A Y O N I K A")

	quote := lipgloss.NewStyle().
		Foreground(lipgloss.Color("245")).
		Italic(true).
		Render(`"Every mod deserves a reader. Every reader deserves a club."`)

	attrib := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#f472a8")).
		Render("— The Club President")

	cmdStyle := lipgloss.NewStyle().Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	commands := []struct{ cmd, desc string }{
		{"sayonika", "Enter the club (interactive TUI)"},
		{"sayonika login", "Sign in with username and password"},
		{"sayonika register", "Create an account"},
		{"sayonika reset-password", "Request a password reset email"},
		{"sayonika logout", "Clear your session"},
		{"sayonika update", "Check for updates"},
		{"sayonika --version", "Show version"},
		{"sayonika help", "You are here"},
	}

	fmt.Printf("\n  %s\n\n  %s\n  %s\n\n  Commands:\n", title, quote, attrib)
	for _, c := range commands {
		fmt.Printf("    %s  %s\n", cmdStyle.Render(fmt.Sprintf("%-26s", c.cmd)), descStyle.Render(c.desc))
	}
	url := lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Render("https://sayonika.moe")
	fmt.Printf("\n  %s\n\n", url)
}

func printGreeting() {
	msg := clubGreetings[rand.IntN(len(clubGreetings))]

	title := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#ff8fb8")).
		Bold(true).
		Render("SAYONIKA")

	quote := lipgloss.NewStyle().
		Foreground(lipgloss.Color("245")).
		Italic(true).
		Render(msg)

	attrib := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#f472a8")).
		Render("— The Club President")

	hint := lipgloss.NewStyle().
		Foreground(lipgloss.Color("245")).
		Render("To join: sayonika login (or sayonika register)")

	fmt.Printf("\n%s\n\n%s\n%s\n\n%s\n\n", title, quote, attrib, hint)
}
