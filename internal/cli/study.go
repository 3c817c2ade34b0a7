package cli

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"vocab-quiz-service/internal/domain"

	"github.com/spf13/cobra"
)

// NewStudyCmd flips through a wordbook as flashcards.
func NewStudyCmd(configPath *string) *cobra.Command {
	var serverURL, username, password string

	cmd := &cobra.Command{
		Use:   "study <wordbook-id>",
		Short: "Study a wordbook as flashcards",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			wordbookID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid wordbook id %q", args[0])
			}
			c, err := loginClient(cmd.Context(), *configPath, serverURL, username, password)
			if err != nil {
				return err
			}
			book, err := c.GetWordbook(cmd.Context(), wordbookID)
			if err != nil {
				return err
			}
			session, err := domain.NewStudySession(book.Words)
			if err != nil {
				return err
			}
			return runStudy(session, book.Title)
		},
	}
	cmd.Flags().StringVar(&serverURL, "server", "", "platform API base URL")
	cmd.Flags().StringVar(&username, "user", "", "username")
	cmd.Flags().StringVar(&password, "pass", "", "password")
	cmd.MarkFlagRequired("user")
	cmd.MarkFlagRequired("pass")
	return cmd
}

func runStudy(session *domain.StudySession, title string) error {
	fmt.Printf("studying %q: f=flip n=next p=prev r=restart q=quit\n", title)

	scanner := bufio.NewScanner(os.Stdin)
	for {
		if session.Done() {
			fmt.Println("\ndeck finished. r to restart, q to quit")
		} else {
			printCard(session)
		}
		fmt.Print("> ")
		if !scanner.Scan() {
			return scanner.Err()
		}
		switch strings.TrimSpace(scanner.Text()) {
		case "f":
			session.Flip()
		case "n":
			session.Next()
		case "p":
			session.Prev()
		case "r":
			session.Restart()
		case "q":
			return nil
		default:
			fmt.Println("commands: f n p r q")
		}
	}
}

func printCard(session *domain.StudySession) {
	pos, total := session.Position()
	card := session.Current()
	if session.Revealed() {
		fmt.Printf("\n[%d/%d] %s: %s", pos, total, card.Text, card.Meaning)
		if card.Example != "" {
			fmt.Printf("\n  e.g. %s", card.Example)
		}
		fmt.Println()
		return
	}
	fmt.Printf("\n[%d/%d] %s\n", pos, total, card.Text)
}
