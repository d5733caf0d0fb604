// Command boardai is the terminal client for a boardai server: it logs in
// and runs the shape assistant against a board.
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"boardai/boardai/services/boardclient"
	"boardai/boardai/services/chatbot"
	"boardai/boardai/utils/color"
	"boardai/boardai/utils/jsonutils"
)

var (
	serverURL string
	username  string
	boardID   string
	token     string
	maxLayers int
)

var rootCmd = &cobra.Command{
	Use:   "boardai",
	Short: "Talk to the board shape assistant from a terminal",
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in and print a bearer token",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
		defer cancel()
		tok, err := newClient("").Login(ctx, username)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), tok)
		return nil
	},
}

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Open an interactive assistant session on a board",
	Long: `Open an interactive assistant session on a board.

Lines are sent to the assistant. Commands:
  /close  drop a pending shape question
  /quit   leave`,
	RunE: func(cmd *cobra.Command, args []string) error {
		tok := resolveToken()
		if tok == "" {
			return errors.New("a token is required (--token or BOARDAI_TOKEN)")
		}
		client := newClient(tok)
		session, err := chatbot.NewSession(client, client.Board(boardID), chatbot.WithMaxLayers(maxLayers))
		if err != nil {
			return err
		}
		return runChat(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout(), session)
	},
}

var layersCmd = &cobra.Command{
	Use:   "layers",
	Short: "Print a board's layers as JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
		defer cancel()
		layers, err := newClient(resolveToken()).Board(boardID).Layers(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), jsonutils.ToJSON(layers))
		return nil
	},
}

func resolveToken() string {
	if token != "" {
		return token
	}
	return os.Getenv("BOARDAI_TOKEN")
}

func newClient(tok string) *boardclient.Client {
	return boardclient.New(serverURL, tok, &http.Client{Timeout: 60 * time.Second})
}

// runChat reads one message per line until EOF or /quit.
func runChat(ctx context.Context, in io.Reader, out io.Writer, session *chatbot.Session) error {
	for _, m := range session.Messages() {
		printMessage(out, m)
	}
	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, color.ColorPrompt(session.Placeholder()+" > "))
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		switch line {
		case "":
			continue
		case "/quit":
			return nil
		case "/close":
			if session.Pending() == nil {
				fmt.Fprintln(out, color.ColorWarning("(nothing pending)"))
				continue
			}
			session.Close()
			fmt.Fprintln(out, color.ColorInfo("(pending shape dropped)"))
			continue
		}

		reply, err := session.Send(ctx, line)
		if err != nil {
			fmt.Fprintln(out, color.ColorError(err.Error()))
			continue
		}
		// The user's line is already on screen.
		for _, m := range reply.Messages[1:] {
			printMessage(out, m)
		}
		for _, id := range reply.LayerIDs {
			fmt.Fprintln(out, color.ColorInfo("layer "+id))
		}
	}
}

func printMessage(out io.Writer, m chatbot.Message) {
	if m.Role == chatbot.RoleUser {
		fmt.Fprintln(out, color.ColorUser("you: "+m.Content))
		return
	}
	fmt.Fprintln(out, color.ColorAssistant("assistant: ")+m.Content)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "http://localhost:8000", "boardai server URL")

	loginCmd.Flags().StringVar(&username, "username", "", "user to log in as")
	_ = loginCmd.MarkFlagRequired("username")

	for _, c := range []*cobra.Command{chatCmd, layersCmd} {
		c.Flags().StringVar(&boardID, "board", "", "board id")
		c.Flags().StringVar(&token, "token", "", "bearer token from 'boardai login'")
		_ = c.MarkFlagRequired("board")
	}
	chatCmd.Flags().IntVar(&maxLayers, "max-layers", 100, "server layer cap, used in messages")

	rootCmd.AddCommand(loginCmd, chatCmd, layersCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, color.ColorError(err.Error()))
		os.Exit(1)
	}
}
