package cli

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rcliao/studynotes/internal/model"
	"github.com/rcliao/studynotes/internal/quiz"
	"github.com/rcliao/studynotes/internal/store"
)

func init() {
	quizCmd := &cobra.Command{
		Use:   "quiz",
		Short: "Generate and take quizzes",
	}

	takeCmd := &cobra.Command{
		Use:   "take <note-id>",
		Short: "Generate a quiz for a note and take it",
		Long: "Generate a quiz for a note and take it interactively. With --resume, take an " +
			"unfinished quiz instead. With --answers, grade a comma-separated list of choices " +
			"without prompting.",
		Args: cobra.MaximumNArgs(1),
		Run:  runQuizTake,
	}
	takeCmd.Flags().String("topic", "", "Focus the questions on one topic")
	takeCmd.Flags().String("resume", "", "Quiz ID to take instead of generating a new one")
	takeCmd.Flags().String("answers", "", "Comma-separated answers, one per question")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List quizzes, newest first",
		Run:   runQuizList,
	}
	listCmd.Flags().String("note", "", "Filter by note ID")
	listCmd.Flags().String("status", "", "Filter: completed or incomplete")
	listCmd.Flags().IntP("limit", "l", 20, "Max results")

	showCmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show a quiz",
		Args:  cobra.ExactArgs(1),
		Run:   runQuizShow,
	}

	rmCmd := &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a quiz",
		Args:  cobra.ExactArgs(1),
		Run:   runQuizRm,
	}

	statsCmd := &cobra.Command{
		Use:   "stats",
		Short: "Show completed/incomplete counts and average score",
		Run:   runQuizStats,
	}
	statsCmd.Flags().String("note", "", "Limit to one note")

	quizCmd.AddCommand(takeCmd, listCmd, showCmd, rmCmd, statsCmd)
	RootCmd.AddCommand(quizCmd)
}

func runQuizTake(cmd *cobra.Command, args []string) {
	topic, _ := cmd.Flags().GetString("topic")
	resume, _ := cmd.Flags().GetString("resume")
	answersStr, _ := cmd.Flags().GetString("answers")

	if resume == "" && len(args) == 0 {
		exitErr("quiz", fmt.Errorf("a note ID or --resume is required"))
	}

	a := openApp(cmd)
	defer a.Close()

	var sess *quiz.Session
	var err error
	if resume != "" {
		sess, err = a.quiz.Start(cmd.Context(), resume)
	} else {
		fmt.Fprintln(os.Stderr, "Generating quiz...")
		sess, err = a.quiz.Generate(cmd.Context(), args[0], topic)
	}
	if err != nil {
		exitErr("quiz", err)
	}

	if answersStr != "" {
		answers := strings.Split(answersStr, ",")
		for i := range answers {
			answers[i] = strings.TrimSpace(answers[i])
		}
		g, err := a.quiz.Grade(cmd.Context(), sess.Quiz().ID, answers)
		if err != nil {
			exitErr("grade", err)
		}
		printJSON(g)
		return
	}

	res := takeInteractive(cmd, a, sess)
	if textFormat() {
		fmt.Printf("Score: %d%% (%d/%d correct)\n", *res.Score, res.Correct, res.Total)
		return
	}
	printJSON(res)
}

// takeInteractive asks each question on stderr and reads choices from stdin.
// A choice is its number or its exact text.
func takeInteractive(cmd *cobra.Command, a *app, sess *quiz.Session) *quiz.Result {
	sc := bufio.NewScanner(os.Stdin)
	for {
		q := sess.Current()
		choices := q.Choices()
		fmt.Fprintf(os.Stderr, "\nQuestion %d of %d\n%s\n", sess.Index()+1, sess.Total(), q.Question)
		for i, c := range choices {
			fmt.Fprintf(os.Stderr, "  %d) %s\n", i+1, c)
		}

		var fb quiz.Feedback
		for {
			fmt.Fprint(os.Stderr, "> ")
			if !sc.Scan() {
				exitErr("quiz", fmt.Errorf("input closed before the quiz finished; resume with --resume %s", sess.Quiz().ID))
			}
			choice := resolveChoice(strings.TrimSpace(sc.Text()), choices)
			var err error
			if fb, err = sess.Answer(choice); err == nil {
				break
			}
		}
		printFeedback(fb)

		res, err := a.quiz.Advance(cmd.Context(), sess)
		if err != nil {
			exitErr("quiz", err)
		}
		if res.Completed {
			return res
		}
	}
}

func resolveChoice(input string, choices []string) string {
	if n, err := strconv.Atoi(input); err == nil && n >= 1 && n <= len(choices) {
		return choices[n-1]
	}
	return input
}

func printFeedback(fb quiz.Feedback) {
	if fb.Correct {
		fmt.Fprintln(os.Stderr, "Correct!")
	} else {
		fmt.Fprintf(os.Stderr, "Incorrect. The answer is: %s\n", fb.Answer)
	}
	if fb.Explanation != "" {
		fmt.Fprintln(os.Stderr, fb.Explanation)
	}
}

func runQuizList(cmd *cobra.Command, args []string) {
	noteID, _ := cmd.Flags().GetString("note")
	status, _ := cmd.Flags().GetString("status")
	limit, _ := cmd.Flags().GetInt("limit")

	a := openApp(cmd)
	defer a.Close()

	list, err := a.quiz.List(cmd.Context(), store.ListQuizzesParams{
		NoteID: noteID,
		Status: store.QuizStatus(status),
		Limit:  limit,
	})
	if err != nil {
		exitErr("list quizzes", err)
	}
	if !textFormat() {
		printJSON(list)
		return
	}
	for _, q := range list {
		fmt.Println(quizLine(&q))
	}
}

func runQuizShow(cmd *cobra.Command, args []string) {
	a := openApp(cmd)
	defer a.Close()

	q, err := a.quiz.Get(cmd.Context(), args[0])
	if err != nil {
		exitErr("show quiz", err)
	}
	if !textFormat() {
		printJSON(q)
		return
	}
	fmt.Println(quizLine(q))
	for i, qq := range q.Questions {
		fmt.Printf("\n%d. %s\n", i+1, qq.Question)
		for _, c := range qq.Choices() {
			mark := " "
			if c == qq.Answer {
				mark = "*"
			}
			fmt.Printf("   %s %s\n", mark, c)
		}
	}
}

func runQuizRm(cmd *cobra.Command, args []string) {
	a := openApp(cmd)
	defer a.Close()

	if err := a.quiz.Delete(cmd.Context(), args[0]); err != nil {
		exitErr("delete quiz", err)
	}
	fmt.Printf(`{"ok":true,"deleted":%q}`+"\n", args[0])
}

func runQuizStats(cmd *cobra.Command, args []string) {
	noteID, _ := cmd.Flags().GetString("note")

	a := openApp(cmd)
	defer a.Close()

	st, err := a.quiz.Stats(cmd.Context(), noteID)
	if err != nil {
		exitErr("quiz stats", err)
	}
	printJSON(st)
}

func quizLine(q *model.Quiz) string {
	status := "incomplete"
	if q.Completed() {
		status = fmt.Sprintf("%d%%", *q.Score)
	}
	topic := q.Topic
	if topic == "" {
		topic = "all topics"
	}
	return fmt.Sprintf("%s  %-30s %-20s %s", q.ID, q.NoteTitle, topic, status)
}
