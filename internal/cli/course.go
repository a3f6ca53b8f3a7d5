package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rcliao/studynotes/internal/model"
	"github.com/rcliao/studynotes/internal/store"
)

func init() {
	courseCmd := &cobra.Command{
		Use:   "course",
		Short: "Manage courses",
	}

	addCmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Create a course",
		Args:  cobra.MinimumNArgs(1),
		Run:   runCourseAdd,
	}
	addCmd.Flags().String("code", "", "Course code, e.g. CS101")
	addCmd.Flags().String("color", "", "Hex color (default "+model.PresetColors[0]+"), presets: "+strings.Join(model.PresetColors, " "))

	editCmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit a course",
		Args:  cobra.ExactArgs(1),
		Run:   runCourseEdit,
	}
	editCmd.Flags().String("name", "", "New name")
	editCmd.Flags().String("code", "", "New code (empty clears it)")
	editCmd.Flags().String("color", "", "New hex color")

	rmCmd := &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a course; its notes are kept",
		Args:  cobra.ExactArgs(1),
		Run:   runCourseRm,
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List courses",
		Run:   runCourseList,
	}

	courseCmd.AddCommand(addCmd, editCmd, rmCmd, listCmd)
	RootCmd.AddCommand(courseCmd)
}

func runCourseAdd(cmd *cobra.Command, args []string) {
	code, _ := cmd.Flags().GetString("code")
	color, _ := cmd.Flags().GetString("color")

	a := openApp(cmd)
	defer a.Close()

	c, err := a.courses.Create(cmd.Context(), store.NewCourse{
		Name:  strings.Join(args, " "),
		Code:  code,
		Color: color,
	})
	if err != nil {
		exitErr("add course", err)
	}
	printCourse(c)
}

func runCourseEdit(cmd *cobra.Command, args []string) {
	var u store.CourseUpdate
	for flag, dst := range map[string]**string{"name": &u.Name, "code": &u.Code, "color": &u.Color} {
		if cmd.Flags().Changed(flag) {
			v, _ := cmd.Flags().GetString(flag)
			*dst = &v
		}
	}

	a := openApp(cmd)
	defer a.Close()

	c, err := a.courses.Update(cmd.Context(), args[0], u)
	if err != nil {
		exitErr("edit course", err)
	}
	printCourse(c)
}

func runCourseRm(cmd *cobra.Command, args []string) {
	a := openApp(cmd)
	defer a.Close()

	if err := a.courses.Delete(cmd.Context(), args[0]); err != nil {
		exitErr("delete course", err)
	}
	fmt.Printf(`{"ok":true,"deleted":%q}`+"\n", args[0])
}

func runCourseList(cmd *cobra.Command, args []string) {
	a := openApp(cmd)
	defer a.Close()

	list, err := a.courses.List(cmd.Context())
	if err != nil {
		exitErr("list courses", err)
	}
	printCourses(list)
}

func printCourse(c *model.Course) {
	if !textFormat() {
		printJSON(c)
		return
	}
	fmt.Printf("%s  %-8s %-30s %s\n", c.ID, c.Code, c.Name, c.Color)
}

func printCourses(list []model.Course) {
	if !textFormat() {
		printJSON(list)
		return
	}
	for i := range list {
		printCourse(&list[i])
	}
}
