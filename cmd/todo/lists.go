package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"todo/internal/storage"
)

func listsCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lists",
		Short: "Print the task lists",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, store, err := opts.open()
			if err != nil {
				return err
			}
			defer store.Close()

			lists, err := store.ListTaskLists()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, l := range lists {
				if l.Deleted {
					continue
				}
				pending, err := store.CountPending(l.UID)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "%s\t%s\t%d\n", l.UID, l.Name, pending)
			}
			return nil
		},
	}
	cmd.AddCommand(listsAddCmd(opts), listsRmCmd(opts), listsRenameCmd(opts))
	return cmd
}

func listsAddCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "add NAME",
		Short: "Create a task list",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := strings.TrimSpace(args[0])
			if name == "" {
				return errors.New("list name is empty")
			}
			_, store, err := opts.open()
			if err != nil {
				return err
			}
			defer store.Close()

			_, err = store.FindTaskList(name)
			switch {
			case err == nil:
				return fmt.Errorf("list %q already exists", name)
			case !errors.Is(err, storage.ErrNotFound):
				return err
			}
			l, err := store.AddTaskList(name)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added list %q (%s)\n", l.Name, l.UID)
			return nil
		},
	}
}

func listsRmCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "rm NAME",
		Short: "Delete a task list",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, store, err := opts.open()
			if err != nil {
				return err
			}
			defer store.Close()

			l, err := store.FindTaskList(strings.TrimSpace(args[0]))
			if err != nil {
				return err
			}
			if err := store.DeleteTaskList(l.UID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted list %q\n", l.Name)
			return nil
		},
	}
}

func listsRenameCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "rename OLD NEW",
		Short: "Rename a task list",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			oldName, newName := strings.TrimSpace(args[0]), strings.TrimSpace(args[1])
			if newName == "" {
				return errors.New("list name is empty")
			}
			_, store, err := opts.open()
			if err != nil {
				return err
			}
			defer store.Close()

			l, err := store.FindTaskList(oldName)
			if err != nil {
				return err
			}
			if other, err := store.FindTaskList(newName); err == nil && other.UID != l.UID {
				return fmt.Errorf("list %q already exists", newName)
			} else if err != nil && !errors.Is(err, storage.ErrNotFound) {
				return err
			}
			if err := store.RenameTaskList(l.UID, newName); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Renamed list %q to %q\n", l.Name, newName)
			return nil
		},
	}
}
