package main

import (
	"fmt"

	"github.com/copilotlabs/refdesk/internal/reference"
	"github.com/spf13/cobra"
)

var listConversation string

func init() {
	listCmd.Flags().StringVarP(&listConversation, "conversation", "c", "", "Conversation to list")
	rootCmd.AddCommand(listCmd)
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the references in a conversation",
	RunE:  runList,
}

// ListResponse is the JSON output for the list command.
type ListResponse struct {
	Conversation string             `json:"conversation"`
	Count        int                `json:"count"`
	References   []reference.Record `json:"references"`
}

func runList(cmd *cobra.Command, args []string) error {
	repoRoot := mustFindRepository()
	cfg := mustLoadConfig(repoRoot)
	conversation := conversationOrDefault(listConversation, cfg)

	st, closeStore := mustOpenStore(repoRoot, cfg)
	defer closeStore()

	refs, err := st.ReferencesForConversation(conversation)
	if err != nil {
		exitWithError(ExitDataError, "reading references: %v", err)
	}

	if humanOutput {
		if len(refs) == 0 {
			fmt.Println("No references.")
			return nil
		}
		for _, rec := range refs {
			printRecordHuman(rec)
		}
		return nil
	}

	if refs == nil {
		refs = []reference.Record{}
	}
	outputJSON(ListResponse{Conversation: conversation, Count: len(refs), References: refs})
	return nil
}
