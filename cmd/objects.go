package cmd

import (
	"fmt"
	"time"

	"s3hive/core/bucket"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	keyFlag         string
	contentTypeFlag string
	objectACLFlag   string
	metaFlag        map[string]string
	dirFlag         string
	expiresFlag     time.Duration
)

// putCmd uploads local files.
var putCmd = &cobra.Command{
	Use:   "put BUCKET FILE...",
	Short: "Upload files",
	Long:  `Uploads each FILE to BUCKET. Objects are named after the file's base name unless --key is given (single file only).`,
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		name, files := args[0], args[1:]
		if keyFlag != "" && len(files) > 1 {
			return fmt.Errorf("--key can only be used with a single file")
		}

		extra := make(map[string]string, len(metaFlag)+2)
		for k, v := range metaFlag {
			extra[k] = v
		}
		if contentTypeFlag != "" {
			extra["ContentType"] = contentTypeFlag
		}
		if objectACLFlag != "" {
			extra["ACL"] = objectACLFlag
		}

		b, logg, err := newFacade()
		if err != nil {
			return err
		}
		for _, file := range files {
			opts := bucket.UploadOptions{Key: keyFlag, ExtraArgs: extra}
			if err := b.Upload(cmd.Context(), name, file, opts); err != nil {
				return fmt.Errorf("failed to upload %s: %w", file, err)
			}
			logg.Info("Uploaded", zap.String("file", file), zap.String("bucket", name))
		}
		return nil
	},
}

// getCmd downloads objects.
var getCmd = &cobra.Command{
	Use:   "get BUCKET KEY...",
	Short: "Download objects",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		b, _, err := newFacade()
		if err != nil {
			return err
		}
		name := args[0]
		for _, key := range args[1:] {
			local, err := b.Download(cmd.Context(), name, key, dirFlag)
			if err != nil {
				return fmt.Errorf("failed to download %s: %w", key, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "s3://%s/%s -> %s\n", name, key, local)
		}
		return nil
	},
}

// rmCmd deletes objects.
var rmCmd = &cobra.Command{
	Use:   "rm BUCKET KEY...",
	Short: "Delete objects",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		b, _, err := newFacade()
		if err != nil {
			return err
		}
		name := args[0]
		for _, key := range args[1:] {
			if err := b.Delete(cmd.Context(), name, key); err != nil {
				return fmt.Errorf("failed to delete %s: %w", key, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "D s3://%s/%s\n", name, key)
		}
		return nil
	},
}

// presignCmd prints a presigned download URL.
var presignCmd = &cobra.Command{
	Use:   "presign BUCKET KEY",
	Short: "Generate a presigned download URL",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		b, _, err := newFacade()
		if err != nil {
			return err
		}
		u, err := b.PresignedURL(cmd.Context(), args[0], args[1], expiresFlag)
		if err != nil {
			return fmt.Errorf("failed to presign %s: %w", args[1], err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), u)
		return nil
	},
}

func init() {
	putCmd.Flags().StringVar(&keyFlag, "key", "", "object key (defaults to the file's base name)")
	putCmd.Flags().StringVar(&contentTypeFlag, "content-type", "", "Content-Type of the objects")
	putCmd.Flags().StringVar(&objectACLFlag, "acl", "", "canned ACL of the objects")
	putCmd.Flags().StringToStringVar(&metaFlag, "meta", nil, "user metadata, e.g. --meta owner=ops,env=prod")
	getCmd.Flags().StringVar(&dirFlag, "dir", "", "local directory to download into (defaults to the current directory)")
	presignCmd.Flags().DurationVar(&expiresFlag, "expires", bucket.DefaultExpiration, "validity of the URL")

	RootCmd.AddCommand(putCmd, getCmd, rmCmd, presignCmd)
}
