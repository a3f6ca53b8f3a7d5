package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rcliao/studynotes/internal/apperr"
	"github.com/rcliao/studynotes/internal/chat"
)

func init() {
	chatCmd := &cobra.Command{
		Use:   "chat",
		Short: "Ask questions about a note",
	}

	askCmd := &cobra.Command{
		Use:   "ask <note-id> [question]",
		Short: "Ask a question about a note",
		Long: "Ask a question about a note. Without a question, starts an interactive session " +
			"that reads one question per line until EOF or /quit.",
		Args: cobra.MinimumNArgs(1),
		Run:  runChatAsk,
	}

	historyCmd := &cobra.Command{
		Use:   "history <note-id>",
		Short: "Show the conversation for a note",
		Args:  cobra.ExactArgs(1),
		Run:   runChatHistory,
	}

	chatCmd.AddCommand(askCmd, historyCmd)
	RootCmd.AddCommand(chatCmd)
}

func runChatAsk(cmd *cobra.Command, args []string) {
	a := openApp(cmd)
	defer a.Close()

	conv, err := a.chat.Load(cmd.Context(), args[0])
	if err != nil {
		exitErr("load chat", err)
	}

	if len(args) > 1 {
		reply, err := a.chat.Ask(cmd.Context(), conv, strings.Join(args[1:], " "))
		if err != nil {
			exitErr("ask", err)
		}
		if textFormat() {
			fmt.Println(reply.Content)
			return
		}
		printJSON(reply)
		return
	}

	fmt.Fprintln(os.Stderr, "Ask a question about this note (/quit to exit).")
	sc := bufio.NewScanner(os.Stdin)
	for {
		fmt.Fprint(os.Stderr, "> ")
		if !sc.Scan() {
			break
		}
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		if line == "/quit" {
			break
		}
		reply, err := a.chat.Ask(cmd.Context(), conv, line)
		if err != nil {
			if errors.Is(err, apperr.ErrStorage) {
				exitErr("ask", err)
			}
			fmt.Fprintf(os.Stderr, "error: %s\n", apperr.Message(err))
			continue
		}
		fmt.Printf("%s\n\n", reply.Content)
	}
}

func runChatHistory(cmd *cobra.Command, args []string) {
	a := openApp(cmd)
	defer a.Close()

	conv, err := a.chat.Load(cmd.Context(), args[0])
	if err != nil {
		exitErr("load chat", err)
	}
	printConversation(conv)
}

func printConversation(conv *chat.Conversation) {
	if !textFormat() {
		printJSON(conv)
		return
	}
	if conv.Empty() {
		fmt.Println("Ask me anything about this note!")
		return
	}
	for _, m := range conv.Turns {
		fmt.Printf("%s: %s\n\n", m.Role, m.Content)
	}
}
