package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/msarti/mandan/pkg/config"
	"github.com/msarti/mandan/pkg/disk"
	"github.com/msarti/mandan/pkg/message"
	"github.com/msarti/mandan/pkg/metrics"
	"github.com/msarti/mandan/pkg/types"
	"github.com/msarti/mandan/util"
)

const usage = `usage: segtool [flags] <command> <topic> <partition> <segment> [offset]

commands:
  create   create the segment, refusing to overwrite a populated one
  append   append stdin as one record and print its offset
  read     print the record at offset and whether it validates
  id       print a new 32-character id`

func main() {
	cfg, args, err := config.LoadConfig(os.Args[1:])
	if err != nil {
		util.Fatal("❌ Failed to load config: %v", err)
	}
	if cfg.EnableExporter {
		metrics.StartMetricsServer(cfg.ExporterPort)
	}

	if err := run(cfg, args, os.Stdin, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "❌", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, args []string, in io.Reader, out io.Writer) error {
	if len(args) == 1 && args[0] == "id" {
		_, err := fmt.Fprintln(out, util.NewID())
		return err
	}
	if len(args) < 4 {
		return errors.New(usage)
	}

	partition, err := util.ParseUint16(args[2])
	if err != nil {
		return fmt.Errorf("partition: %w", err)
	}
	segment, err := util.ParseUint16(args[3])
	if err != nil {
		return fmt.Errorf("segment: %w", err)
	}
	id := disk.NewSegmentIdentity(cfg.LogDir, args[1], partition, segment)

	switch args[0] {
	case "create":
		if err := id.CreateNew(); err != nil {
			return err
		}
		_, err := fmt.Fprintln(out, id.FilePath())
		return err

	case "append":
		payload, err := io.ReadAll(in)
		if err != nil {
			return fmt.Errorf("read stdin: %w", err)
		}
		msg, err := message.New(payload)
		if err != nil {
			return err
		}
		h, err := disk.NewHandler(cfg, id)
		if err != nil {
			return err
		}
		offset, appendErr := h.Append(msg)
		if err := h.Close(); err != nil && appendErr == nil {
			return err
		}
		if appendErr != nil {
			return appendErr
		}
		_, err = fmt.Fprintln(out, offset)
		return err

	case "read":
		if len(args) < 5 {
			return errors.New(usage)
		}
		offset, err := strconv.ParseInt(args[4], 10, 64)
		if err != nil {
			return fmt.Errorf("offset: %w", err)
		}
		f, err := id.OpenReader()
		if err != nil {
			return err
		}
		defer f.Close()

		msg, err := disk.ReadAt(f, offset)
		if err != nil {
			return err
		}
		return printMessage(out, offset, msg)

	default:
		return fmt.Errorf("unknown command %q\n%s", args[0], usage)
	}
}

func printMessage(out io.Writer, offset int64, msg *types.Message) error {
	_, err := fmt.Fprintf(out, "offset=%d signature=0x%04X hash=%016x timestamp=%d size=%d valid=%t\n%s\n",
		offset, msg.Header.Signature, msg.Header.Hash, msg.Header.Timestamp, msg.Header.Size,
		message.Validate(msg), msg.Payload)
	return err
}
