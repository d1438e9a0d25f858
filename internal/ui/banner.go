// Package ui renders the colored console output of the server and the CLI.
package ui

import (
	"fmt"

	"github.com/fatih/color"
)

// Version is printed in the banner.
const Version = "v1.0.0"

// PrintBanner displays the startup banner.
func PrintBanner() {
	fmt.Println()

	blue := color.New(color.FgHiBlue, color.Bold)
	violet := color.New(color.FgHiMagenta, color.Bold)
	yellow := color.New(color.FgYellow, color.Bold)
	white := color.New(color.FgWhite)
	dim := color.New(color.FgHiBlack)

	blue.Println("╔════════════════════════════════════════════════════════════╗")

	rows := [][2]string{
		{"█▀█ █▀█ █▀█ █▀▄▀█ █▀█ ▀█▀", "   ▄▀█ █▀█ █▀▀ █▄ █ ▄▀█"},
		{"█▀▀ █▀▄ █▄█ █ ▀ █ █▀▀  █ ", "   █▀█ █▀▄ ██▄ █ ▀█ █▀█"},
	}
	for _, row := range rows {
		blue.Print("║    ")
		blue.Print(row[0])
		violet.Print(row[1])
		fmt.Print("      ")
		blue.Println("║")
	}

	blue.Println("╠════════════════════════════════════════════════════════════╣")

	blue.Print("║  ")
	yellow.Print("⚔  ONE PROMPT, MANY MODELS")
	dim.Print("  │  ")
	white.Print(Version)
	dim.Print("                     ")
	blue.Println("║")

	blue.Println("╚════════════════════════════════════════════════════════════╝")

	fmt.Println()
}

// PrintMiniBanner displays a one-line banner for the CLI.
func PrintMiniBanner() {
	blue := color.New(color.FgHiBlue, color.Bold)
	violet := color.New(color.FgHiMagenta, color.Bold)

	fmt.Println()
	blue.Print("⚔  PROMPT ")
	violet.Print("ARENA ")
	color.New(color.FgHiBlack).Println(Version)
	fmt.Println()
}
