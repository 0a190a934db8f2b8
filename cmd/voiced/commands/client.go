package commands

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/clerviq/voiced/pkg/cliutil"
	"github.com/clerviq/voiced/pkg/voice"
)

var (
	clientName    string
	clientCompany string
	uploadAudio   string
	uploadGender  string
	uploadAccent  string
)

var clientCmd = &cobra.Command{
	Use:   "client",
	Short: "Manage clients and their voices",
}

var clientAddCmd = &cobra.Command{
	Use:   "add <client-id>",
	Short: "Register a new client",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := newManager()
		if err != nil {
			return err
		}
		name := clientName
		if name == "" {
			name = args[0]
		}
		c, err := m.AddClient(args[0], name, clientCompany)
		if err != nil {
			return err
		}
		cliutil.PrintSuccess("registered client %s", c.ID)
		return nil
	},
}

var clientListCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered clients",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := newManager()
		if err != nil {
			return err
		}
		clients, err := m.ListClients()
		if err != nil {
			return err
		}
		if outputJSON {
			return cliutil.Output(cmd.OutOrStdout(), clients, cliutil.FormatJSON)
		}
		rows := [][]string{{"CLIENT", "NAME", "COMPANY", "VOICES"}}
		for _, c := range clients {
			rows = append(rows, []string{c.ID, c.Name, c.Company, strconv.Itoa(len(c.Voices))})
		}
		return cliutil.Table(cmd.OutOrStdout(), rows)
	},
}

var clientVoicesCmd = &cobra.Command{
	Use:   "voices <client-id>",
	Short: "List a client's voice profiles",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := newManager()
		if err != nil {
			return err
		}
		voices, err := m.GetClientVoices(args[0])
		if err != nil {
			return err
		}
		if outputJSON {
			return cliutil.Output(cmd.OutOrStdout(), voices, cliutil.FormatJSON)
		}
		rows := [][]string{{"VOICE", "GENDER", "ACCENT", "FINGERPRINT"}}
		for _, v := range voices {
			rows = append(rows, []string{v.Name, string(v.Gender), string(v.Accent), v.Fingerprint})
		}
		return cliutil.Table(cmd.OutOrStdout(), rows)
	},
}

var clientUploadVoiceCmd = &cobra.Command{
	Use:   "upload-voice <client-id> <voice-name>",
	Short: "Clone a voice into a client's collection",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if uploadAudio == "" {
			return fmt.Errorf("--audio is required")
		}
		gender, err := voice.ParseGender(uploadGender)
		if err != nil {
			return err
		}
		accent, err := voice.ParseAccent(uploadAccent)
		if err != nil {
			return err
		}
		m, err := newManager()
		if err != nil {
			return err
		}
		cfg, err := m.UploadVoice(cmd.Context(), args[0], args[1], uploadAudio, gender, accent)
		if err != nil {
			return err
		}
		cliutil.PrintSuccess("voice %q added to client %s (fingerprint %s)", cfg.Name, args[0], cfg.Fingerprint)
		return nil
	},
}

func init() {
	clientAddCmd.Flags().StringVar(&clientName, "name", "", "display name (default: client id)")
	clientAddCmd.Flags().StringVar(&clientCompany, "company", "", "company name")
	clientUploadVoiceCmd.Flags().StringVar(&uploadAudio, "audio", "", "speaker recording (WAV)")
	clientUploadVoiceCmd.Flags().StringVar(&uploadGender, "gender", "neutral", "voice gender")
	clientUploadVoiceCmd.Flags().StringVar(&uploadAccent, "accent", "en", "accent code")

	clientCmd.AddCommand(clientAddCmd)
	clientCmd.AddCommand(clientListCmd)
	clientCmd.AddCommand(clientVoicesCmd)
	clientCmd.AddCommand(clientUploadVoiceCmd)
}
