package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

// NewTaskCmd создаёт группу команд для управления задачами.
func NewTaskCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "task",
		Short: "Manage checkout tasks",
	}

	cmd.AddCommand(
		newTaskListCmd(clientFn, outputFn),
		newTaskCreateCmd(clientFn, outputFn),
		newTaskShowCmd(clientFn, outputFn),
		newTaskRetryCmd(clientFn, outputFn),
		newTaskDeleteCmd(clientFn, outputFn),
	)

	return cmd
}

func newTaskListCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List tasks",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			tasks, err := client.ListTasks()
			if err != nil {
				return err
			}

			headers := []string{"ID", "ACCOUNT", "PRODUCT", "SIZE", "STATE", "DETAIL"}
			rows := make([][]string, len(tasks))
			for i, t := range tasks {
				rows[i] = []string{
					strconv.FormatUint(t.ID, 10), t.Account, t.Product, t.Size, t.State, t.Detail,
				}
			}

			out.Print(headers, rows, tasks)
			return nil
		},
	}
}

func newTaskCreateCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	var productName string
	var variantName string
	var sizeID uint64
	var sizeName string

	cmd := &cobra.Command{
		Use:   "create VARIANT_ID",
		Short: "Create a batch of tasks for a product variant",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			variantID, err := strconv.ParseUint(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid variant ID %q", args[0])
			}

			created, err := client.CreateBatch(CreateBatchRequest{
				ProductName: productName,
				VariantID:   variantID,
				VariantName: variantName,
				SizeID:      sizeID,
				SizeName:    sizeName,
			})
			if err != nil {
				return err
			}

			out.Success(fmt.Sprintf("Created %d task(s)", len(created.TaskIDs)))
			rows := make([][]string, len(created.TaskIDs))
			for i, id := range created.TaskIDs {
				rows[i] = []string{strconv.FormatUint(id, 10)}
			}
			out.Print([]string{"ID"}, rows, created)
			return nil
		},
	}

	cmd.Flags().StringVar(&productName, "product", "", "Product name (required)")
	cmd.Flags().StringVar(&variantName, "variant-name", "", "Variant name shown in reports")
	cmd.Flags().Uint64Var(&sizeID, "size-id", 0, "Size characteristic ID (0 for sizeless products)")
	cmd.Flags().StringVar(&sizeName, "size-name", "", "Size name shown in reports")
	cmd.MarkFlagRequired("product")

	return cmd
}

func newTaskShowCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "show ID",
		Short: "Show task details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			id, err := strconv.ParseUint(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid task ID %q", args[0])
			}

			task, err := client.GetTask(id)
			if err != nil {
				return err
			}

			out.Print(
				[]string{"ID", "ACCOUNT", "PROXY", "PRODUCT", "VARIANT", "SIZE", "STATE", "DETAIL", "CREATED"},
				[][]string{{
					strconv.FormatUint(task.ID, 10), task.Account, task.Proxy,
					task.Product, task.Variant, task.Size, task.State, task.Detail, task.CreatedAt,
				}},
				task,
			)
			return nil
		},
	}
}

func newTaskRetryCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "retry ID",
		Short: "Restart a task stopped by a recoverable error",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			id, err := strconv.ParseUint(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid task ID %q", args[0])
			}

			if err := client.RetryTask(id); err != nil {
				return err
			}

			out.Success(fmt.Sprintf("Task restarted: %d", id))
			return nil
		},
	}
}

func newTaskDeleteCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a task, cancelling it if running",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			id, err := strconv.ParseUint(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid task ID %q", args[0])
			}

			if err := client.DeleteTask(id); err != nil {
				return err
			}

			out.Success(fmt.Sprintf("Task deleted: %d", id))
			return nil
		},
	}
}
