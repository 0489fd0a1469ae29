package main

import "fmt"

// ANSI color constants for update output (no lipgloss, runs outside TUI).
const (
	ansiReset  = "\033[0m"
	ansiBold   = "\033[1m"
	ansiItalic = "\033[3m"
	ansiSakura = "\033[38;2;255;143;184m" // #ff8fb8
	ansiRose   = "\033[38;2;244;114;168m" // #f472a8
	ansiSlate  = "\033[38;2;136;144;160m" // #8890a0
)

// printUpdateLogo prints the spaced SAYONIKA wordmark in alternating pinks.
func printUpdateLogo() {
	letters := "SAYONIKA"
	colors := [2]string{ansiSakura, ansiRose}
	fmt.Print("\n  ")
	for i, ch := range letters {
		fmt.Printf("%s%s%c%s", colors[i%2], ansiBold, ch, ansiReset)
		if i < len(letters)-1 {
			fmt.Print("  ")
		}
	}
	fmt.Println()
}

// printUpdateSuccess prints the update-complete message.
func printUpdateSuccess(oldVersion, newVersion string) {
	printUpdateLogo()
	fmt.Printf("\n  %s%s%s  %s%s→%s  %s%s%s%s\n",
		ansiSlate, oldVersion, ansiReset,
		ansiSakura, ansiBold, ansiReset,
		ansiSakura, ansiBold, newVersion, ansiReset,
	)
	fmt.Printf("\n  %s│%s %s%sTHE CLUB PRESIDENT%s\n", ansiRose, ansiReset, ansiRose, ansiBold, ansiReset)
	fmt.Printf("  %s│%s %s%sThe clubroom got a fresh coat of paint.%s\n\n", ansiRose, ansiReset, ansiSakura, ansiItalic, ansiReset)
}

// printAlreadyCurrent prints the already-up-to-date message.
func printAlreadyCurrent(currentVersion string) {
	printUpdateLogo()
	fmt.Printf("\n  %s%s%s%s  %s%s✿%s  %s%scurrent%s\n",
		ansiSakura, ansiBold, currentVersion, ansiReset,
		ansiRose, ansiBold, ansiReset,
		ansiSlate, ansiItalic, ansiReset,
	)
	fmt.Printf("\n  %s│%s %s%sTHE CLUB PRESIDENT%s\n", ansiRose, ansiReset, ansiRose, ansiBold, ansiReset)
	fmt.Printf("  %s│%s %s%sNothing to update. Everything is just how you left it.%s\n\n", ansiRose, ansiReset, ansiSakura, ansiItalic, ansiReset)
}
