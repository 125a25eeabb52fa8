// Command chat is a small terminal client for a Tik-Talk server. Handy for
// poking at a running server without the browser extension.
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/gookit/color"

	"github.com/Shashank-Karan/Tik-Talk/clients/go/tiktalk"
)

func main() {
	server := flag.String("server", "http://localhost:3000", "Tik-Talk server URL")
	page := flag.String("url", "", "page URL whose room to join (required)")
	flag.Parse()

	if *page == "" {
		fmt.Fprintln(os.Stderr, "usage: chat -url https://example.com/page [-server http://localhost:3000]")
		os.Exit(2)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	client, err := tiktalk.Dial(ctx, *server)
	if err != nil {
		fmt.Fprintf(os.Stderr, "connect failed: %v\n", err)
		os.Exit(1)
	}
	defer client.Close()

	client.On(tiktalk.EventRoomJoined, func(data json.RawMessage) {
		var joined tiktalk.RoomJoined
		if json.Unmarshal(data, &joined) != nil {
			return
		}
		color.Bold.Printf("joined %s as %s (%d online)\n", joined.RoomID, joined.UserData.Username, joined.UserCount)
		for _, msg := range joined.RecentMessages {
			printMessage(msg)
		}
	})

	client.On(tiktalk.EventNewMessage, func(data json.RawMessage) {
		var msg tiktalk.Message
		if json.Unmarshal(data, &msg) == nil {
			printMessage(msg)
		}
	})

	client.On(tiktalk.EventUserJoined, func(data json.RawMessage) {
		var ev tiktalk.UserEvent
		if json.Unmarshal(data, &ev) == nil {
			color.Gray.Printf("* %s joined (%d online)\n", ev.UserData.Username, ev.UserCount)
		}
	})

	client.On(tiktalk.EventUserLeft, func(data json.RawMessage) {
		var ev tiktalk.UserLeft
		if json.Unmarshal(data, &ev) == nil {
			color.Gray.Printf("* %s left (%d online)\n", ev.Username, ev.UserCount)
		}
	})

	client.On(tiktalk.EventRateLimited, func(data json.RawMessage) {
		var e tiktalk.ServerError
		if json.Unmarshal(data, &e) == nil {
			color.Yellow.Printf("! %s\n", e.Message)
		}
	})

	client.On(tiktalk.EventError, func(data json.RawMessage) {
		var e tiktalk.ServerError
		if json.Unmarshal(data, &e) == nil {
			color.Red.Printf("error: %s\n", e.Message)
		}
	})

	if err := client.Join(*page); err != nil {
		fmt.Fprintf(os.Stderr, "join failed: %v\n", err)
		os.Exit(1)
	}

	// Read stdin lines and send them; /quit exits.
	go func() {
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if line == "" {
				continue
			}
			if line == "/quit" {
				cancel()
				return
			}
			if err := client.SendText(line); err != nil {
				color.Red.Printf("send failed: %v\n", err)
				cancel()
				return
			}
		}
		cancel()
	}()

	if err := client.Listen(ctx); err != nil && ctx.Err() == nil {
		fmt.Fprintf(os.Stderr, "connection lost: %v\n", err)
		os.Exit(1)
	}
}

func printMessage(msg tiktalk.Message) {
	hex := strings.TrimPrefix(msg.AvatarColor, "#")
	color.HEX(hex).Printf("%s", msg.Username)
	fmt.Printf(": %s\n", msg.Content)
}
