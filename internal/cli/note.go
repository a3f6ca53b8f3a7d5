package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rcliao/studynotes/internal/model"
	"github.com/rcliao/studynotes/internal/store"
)

func init() {
	noteCmd := &cobra.Command{
		Use:   "note",
		Short: "Manage notes",
	}

	addCmd := &cobra.Command{
		Use:   "add [content]",
		Short: "Create a note",
		Long:  "Create a note. Content can be a positional arg or piped via stdin.",
		Run:   runNoteAdd,
	}
	addCmd.Flags().StringP("title", "t", "", "Title (required)")
	addCmd.Flags().String("course", "", "Course ID")
	addCmd.Flags().String("type", string(model.ContentText), "Content type: text, pdf, image, document")
	addCmd.Flags().String("file", "", "Source file URI")
	addCmd.MarkFlagRequired("title")

	editCmd := &cobra.Command{
		Use:   "edit <id> [content]",
		Short: "Edit a note",
		Long:  "Edit a note. Only the given flags change; content comes from args or stdin when present.",
		Args:  cobra.MinimumNArgs(1),
		Run:   runNoteEdit,
	}
	editCmd.Flags().StringP("title", "t", "", "New title")
	editCmd.Flags().String("course", "", "Move to course ID")
	editCmd.Flags().Bool("no-course", false, "Remove from its course")
	editCmd.Flags().String("type", "", "New content type")
	editCmd.Flags().String("file", "", "New source file URI")

	rmCmd := &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a note with its chat and quizzes",
		Args:  cobra.ExactArgs(1),
		Run:   runNoteRm,
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List notes, most recently updated first",
		Run:   runNoteList,
	}
	listCmd.Flags().String("course", "", "Filter by course ID")
	listCmd.Flags().IntP("limit", "l", 20, "Max results")

	showCmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show a note",
		Args:  cobra.ExactArgs(1),
		Run:   runNoteShow,
	}

	searchCmd := &cobra.Command{
		Use:   "search [query]",
		Short: "Search notes by keyword",
		Long:  "Search note titles, content and summaries for matching text.",
		Args:  cobra.MinimumNArgs(1),
		Run:   runNoteSearch,
	}
	searchCmd.Flags().String("course", "", "Filter by course ID")
	searchCmd.Flags().IntP("limit", "l", 20, "Max results")

	analyzeCmd := &cobra.Command{
		Use:   "analyze <id>",
		Short: "Generate a summary, key concepts and topics for a note",
		Args:  cobra.ExactArgs(1),
		Run:   runNoteAnalyze,
	}

	noteCmd.AddCommand(addCmd, editCmd, rmCmd, listCmd, showCmd, searchCmd, analyzeCmd)
	RootCmd.AddCommand(noteCmd)
}

func runNoteAdd(cmd *cobra.Command, args []string) {
	title, _ := cmd.Flags().GetString("title")
	courseID, _ := cmd.Flags().GetString("course")
	contentType, _ := cmd.Flags().GetString("type")
	fileURI, _ := cmd.Flags().GetString("file")
	content := strings.TrimSpace(readContent(args))

	a := openApp(cmd)
	defer a.Close()

	n, err := a.notes.Create(cmd.Context(), store.NewNote{
		CourseID:    courseID,
		Title:       title,
		Content:     content,
		ContentType: model.ContentType(contentType),
		FileURI:     fileURI,
	})
	if err != nil {
		exitErr("add note", err)
	}
	printNote(n)
}

func runNoteEdit(cmd *cobra.Command, args []string) {
	var u store.NoteUpdate
	if cmd.Flags().Changed("title") {
		v, _ := cmd.Flags().GetString("title")
		u.Title = &v
	}
	if cmd.Flags().Changed("course") {
		v, _ := cmd.Flags().GetString("course")
		u.CourseID = &v
	}
	if noCourse, _ := cmd.Flags().GetBool("no-course"); noCourse {
		none := ""
		u.CourseID = &none
	}
	if cmd.Flags().Changed("type") {
		v, _ := cmd.Flags().GetString("type")
		ct := model.ContentType(v)
		u.ContentType = &ct
	}
	if cmd.Flags().Changed("file") {
		v, _ := cmd.Flags().GetString("file")
		u.FileURI = &v
	}
	if content := readContent(args[1:]); content != "" {
		content = strings.TrimSpace(content)
		u.Content = &content
	}

	a := openApp(cmd)
	defer a.Close()

	n, err := a.notes.Update(cmd.Context(), args[0], u)
	if err != nil {
		exitErr("edit note", err)
	}
	printNote(n)
}

func runNoteRm(cmd *cobra.Command, args []string) {
	a := openApp(cmd)
	defer a.Close()

	if err := a.notes.Delete(cmd.Context(), args[0]); err != nil {
		exitErr("delete note", err)
	}
	fmt.Printf(`{"ok":true,"deleted":%q}`+"\n", args[0])
}

func runNoteList(cmd *cobra.Command, args []string) {
	courseID, _ := cmd.Flags().GetString("course")
	limit, _ := cmd.Flags().GetInt("limit")

	a := openApp(cmd)
	defer a.Close()

	list, err := a.notes.List(cmd.Context(), courseID, limit)
	if err != nil {
		exitErr("list notes", err)
	}
	printNotes(list)
}

func runNoteShow(cmd *cobra.Command, args []string) {
	a := openApp(cmd)
	defer a.Close()

	n, err := a.notes.Get(cmd.Context(), args[0])
	if err != nil {
		exitErr("show note", err)
	}
	printNote(n)
}

func runNoteSearch(cmd *cobra.Command, args []string) {
	courseID, _ := cmd.Flags().GetString("course")
	limit, _ := cmd.Flags().GetInt("limit")
	query := strings.Join(args, " ")

	a := openApp(cmd)
	defer a.Close()

	results, err := a.notes.Search(cmd.Context(), query, courseID, limit)
	if err != nil {
		exitErr("search", err)
	}
	printNotes(results)
}

func runNoteAnalyze(cmd *cobra.Command, args []string) {
	a := openApp(cmd)
	defer a.Close()

	if textFormat() {
		fmt.Println("Analyzing...")
	}
	n, err := a.notes.Analyze(cmd.Context(), args[0])
	if err != nil {
		exitErr("analyze", err)
	}
	printNote(n)
}

func printNote(n *model.Note) {
	if !textFormat() {
		printJSON(n)
		return
	}
	fmt.Printf("%s  %s [%s]\n", n.ID, n.Title, n.ContentType)
	if n.CourseID != "" {
		fmt.Printf("course: %s\n", n.CourseID)
	}
	fmt.Printf("updated: %s\n", n.UpdatedAt.Local().Format("2006-01-02 15:04"))
	if n.Content != "" {
		fmt.Printf("\n%s\n", n.Content)
	}
	if n.Analyzed() {
		fmt.Printf("\nSummary: %s\n", n.AISummary)
		fmt.Printf("Key concepts: %s\n", strings.Join(n.AIConcepts, ", "))
		fmt.Printf("Topics: %s\n", strings.Join(n.Topics, ", "))
	}
}

func printNotes(list []model.Note) {
	if !textFormat() {
		printJSON(list)
		return
	}
	for _, n := range list {
		fmt.Printf("%s  %-40s %s\n", n.ID, n.Title, n.UpdatedAt.Local().Format("2006-01-02"))
	}
}
