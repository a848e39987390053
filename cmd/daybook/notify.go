package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var notifyCmd = &cobra.Command{
	Use:   "notify",
	Short: "Regenerate reminders and print the notification list",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := context.Background()

		a, err := buildApp(ctx)
		if err != nil {
			return err
		}
		defer a.close()

		if err := a.engine.Generate(ctx); err != nil {
			return err
		}
		list, err := a.engine.GetAll(ctx)
		if err != nil {
			return err
		}
		unread, err := a.engine.UnreadCount(ctx)
		if err != nil {
			return err
		}

		for _, n := range list {
			mark := " "
			if !n.IsRead {
				mark = "*"
			}
			fmt.Printf("%s [%s] %s: %s\n", mark, n.Timestamp.Format("2006-01-02 15:04"), n.Title, n.Message)
		}
		fmt.Printf("%d notification(s), %d unread\n", len(list), unread)
		return nil
	},
}
