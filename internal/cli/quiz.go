package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"vocab-quiz-service/internal/client"
	"vocab-quiz-service/internal/domain"

	"github.com/spf13/cobra"
)

// NewQuizCmd runs an interactive quiz against the platform API.
func NewQuizCmd(configPath *string) *cobra.Command {
	var serverURL, username, password string

	cmd := &cobra.Command{
		Use:   "quiz <wordbook-id>",
		Short: "Take a quiz over a wordbook from the terminal",
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
			return runQuiz(cmd.Context(), c, wordbookID)
		},
	}
	cmd.Flags().StringVar(&serverURL, "server", "", "platform API base URL")
	cmd.Flags().StringVar(&username, "user", "", "username")
	cmd.Flags().StringVar(&password, "pass", "", "password")
	cmd.MarkFlagRequired("user")
	cmd.MarkFlagRequired("pass")
	return cmd
}

func loginClient(ctx context.Context, configPath, serverURL, username, password string) (*client.Client, error) {
	if serverURL == "" {
		cfg, err := loadConfigOrDefault(configPath)
		if err != nil {
			return nil, err
		}
		serverURL = cfg.API.BaseURL
	}
	if serverURL == "" {
		serverURL = "http://localhost:8080"
	}

	c := client.NewClient(serverURL, client.NewAuthContext())
	user, err := c.Login(ctx, username, password)
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	fmt.Printf("logged in as %s (%s)\n", user.Username, user.Role)
	return c, nil
}

func runQuiz(ctx context.Context, c *client.Client, wordbookID int64) error {
	flow := client.NewQuizFlow(c)
	if err := flow.Start(ctx, wordbookID); err != nil {
		return err
	}

	scanner := bufio.NewScanner(os.Stdin)
	for {
		question, err := flow.Current()
		if err != nil {
			return err
		}
		answered, total := flow.Progress()
		fmt.Printf("\n[%d/%d] %s\n", answered+1, total, question.Prompt)
		for i, choice := range question.Choices {
			fmt.Printf("  %d) %s\n", i+1, choice)
		}
		fmt.Print("> ")
		if !scanner.Scan() {
			return scanner.Err()
		}
		candidate := resolveChoice(question, scanner.Text())

		correct, finished, err := flow.Submit(candidate)
		if errors.Is(err, domain.ErrEmptyAnswer) {
			fmt.Println("please type an answer")
			continue
		}
		if err != nil {
			return err
		}
		if correct {
			fmt.Println("correct!")
		} else {
			fmt.Printf("wrong, the answer was %q\n", question.Answer)
		}
		if finished {
			break
		}
	}

	result, err := flow.Finish(ctx)
	var persistErr *client.ScorePersistError
	if errors.As(err, &persistErr) {
		fmt.Printf("\nyour score: %.1f%% (warning: could not be recorded: %v)\n", result.Percent, persistErr)
		return nil
	}
	if err != nil {
		return err
	}
	fmt.Printf("\nyour score: %.1f%% (recorded)\n", result.Percent)
	return nil
}

// resolveChoice maps a typed option number onto the choice text, so "2" picks
// the second option of a multiple choice question.
func resolveChoice(q domain.Question, input string) string {
	input = strings.TrimSpace(input)
	if q.Kind != domain.KindMultipleChoice {
		return input
	}
	n, err := strconv.Atoi(input)
	if err != nil || n < 1 || n > len(q.Choices) {
		return input
	}
	return q.Choices[n-1]
}
