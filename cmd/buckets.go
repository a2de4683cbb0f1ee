package cmd

import (
	"fmt"

	"s3hive/core/bucket"

	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	aclFlag    string
	publicFlag bool
	quietFlag  bool
	jsonFlag   bool
)

// mbCmd creates buckets.
var mbCmd = &cobra.Command{
	Use:   "mb BUCKET...",
	Short: "Create buckets",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		acl := aclFlag
		if publicFlag {
			acl = "public-read"
		}
		if !bucket.ValidACL(acl) {
			return fmt.Errorf("--acl should be one of: private, public-read, public-read-write, bucket-owner-read, bucket-owner-full-control")
		}

		b, logg, err := newFacade()
		if err != nil {
			return err
		}
		for _, name := range args {
			if err := b.CreateBucket(cmd.Context(), name, acl); err != nil {
				return fmt.Errorf("failed to create bucket %s: %w", name, err)
			}
			logg.Info("Bucket created", zap.String("bucket", name), zap.String("acl", acl))
		}
		return nil
	},
}

// rbCmd deletes buckets.
var rbCmd = &cobra.Command{
	Use:   "rb BUCKET...",
	Short: "Delete empty buckets",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		b, logg, err := newFacade()
		if err != nil {
			return err
		}
		for _, name := range args {
			if err := b.DeleteBucket(cmd.Context(), name); err != nil {
				return fmt.Errorf("failed to delete bucket %s: %w", name, err)
			}
			logg.Info("Bucket deleted", zap.String("bucket", name))
		}
		return nil
	},
}

// lsCmd lists buckets, or the objects of a bucket.
var lsCmd = &cobra.Command{
	Use:   "ls [BUCKET]",
	Short: "List buckets or the objects in a bucket",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		b, _, err := newFacade()
		if err != nil {
			return err
		}
		if len(args) == 0 {
			return listBuckets(cmd, b)
		}
		return listObjects(cmd, b, args[0])
	},
}

func listBuckets(cmd *cobra.Command, b *bucket.Bucket) error {
	out := cmd.OutOrStdout()
	if quietFlag {
		names, err := b.BucketNames(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to list buckets: %w", err)
		}
		if jsonFlag {
			return writeJSON(cmd, names)
		}
		for _, name := range names {
			fmt.Fprintln(out, name)
		}
		return nil
	}

	buckets, err := b.ListBuckets(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list buckets: %w", err)
	}
	if jsonFlag {
		return writeJSON(cmd, buckets)
	}
	for _, bd := range buckets {
		fmt.Fprintf(out, "s3://%s/\t%s\n", bd.Name, bd.CreationDate.Format("2006-01-02 15:04:05"))
	}
	return nil
}

func listObjects(cmd *cobra.Command, b *bucket.Bucket, name string) error {
	out := cmd.OutOrStdout()
	if quietFlag {
		keys, err := b.ObjectKeys(cmd.Context(), name)
		if err != nil {
			return fmt.Errorf("failed to list objects in %s: %w", name, err)
		}
		if jsonFlag {
			return writeJSON(cmd, keys)
		}
		for _, key := range keys {
			fmt.Fprintln(out, key)
		}
		return nil
	}

	objects, err := b.ListObjects(cmd.Context(), name)
	if err != nil {
		return fmt.Errorf("failed to list objects in %s: %w", name, err)
	}
	if jsonFlag {
		return writeJSON(cmd, objects)
	}
	var total int64
	for _, obj := range objects {
		fmt.Fprintf(out, "s3://%s/%s\t%db\t%s\n", name, obj.Key, obj.Size, obj.LastModified.Format("2006-01-02 15:04:05"))
		total += obj.Size
	}
	fmt.Fprintf(out, "\n%d files, %d bytes\n", len(objects), total)
	return nil
}

func writeJSON(cmd *cobra.Command, v any) error {
	data, err := jsoniter.ConfigCompatibleWithStandardLibrary.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return err
}

func init() {
	mbCmd.Flags().StringVar(&aclFlag, "acl", bucket.ACLPrivate, "canned ACL of the new buckets")
	mbCmd.Flags().BoolVarP(&publicFlag, "public", "P", false, "shortcut for --acl public-read")
	lsCmd.Flags().BoolVarP(&quietFlag, "quiet", "q", false, "print bucket names or object keys only")
	lsCmd.Flags().BoolVar(&jsonFlag, "json", false, "print JSON")

	RootCmd.AddCommand(mbCmd, rbCmd, lsCmd)
}
