// Package main lists the Telegram chats that have messaged the bot, to find
// the TELEGRAM_CHAT_ID value.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/fd1az/optrack/business/alerting/infra/telegram"
)

func main() {
	_ = godotenv.Load()

	token := flag.String("token", os.Getenv("TELEGRAM_BOT_TOKEN"), "Bot token (default $TELEGRAM_BOT_TOKEN)")
	flag.Parse()

	if *token == "" {
		fmt.Fprintln(os.Stderr, "error: TELEGRAM_BOT_TOKEN not found in environment")
		os.Exit(1)
	}

	bot, err := telegram.NewBot(*token, "")
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	chats, err := telegram.FindChats(bot)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	if len(chats) == 0 {
		fmt.Println("No messages found.")
		fmt.Println("Send a message to your bot first, then run this again.")
		return
	}

	fmt.Printf("Found %d chat(s):\n\n", len(chats))
	for _, c := range chats {
		fmt.Printf("  %d → %s (%s)\n", c.ID, c.Name, c.Type)
	}
	fmt.Printf("\nAdd to your .env:\nTELEGRAM_CHAT_ID=%d\n", chats[0].ID)
}
