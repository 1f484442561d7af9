package img

import (
	"bytes"
	"context"
	"fmt"
	"image/png"
	"os"
	"strings"
	"time"

	"github.com/myrjola/avalanchemystery/internal/artwork"
	"github.com/myrjola/avalanchemystery/internal/envstruct"
	"github.com/myrjola/avalanchemystery/internal/errors"
	"github.com/spf13/cobra"
)

var Group = &cobra.Group{
	ID:    "img",
	Title: "Image operations",
}

func init() {
	Generate.Flags().String("out", "./out.png", "path to generated image file")
	Generate.Flags().String("upload", "", "also upload to the artwork bucket under this key")
}

var Generate = &cobra.Command{
	Use:     "gen [prompt]",
	GroupID: "img",
	Short:   "Generate image",
	Long:    `Generates collectible artwork with Dall-E and optionally publishes it to the artwork bucket`,
	Args:    cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Minute) //nolint:mnd // image generation is slow
		defer cancel()

		prompt := strings.Join(args, " ")
		imgBytes, err := artwork.NewOpenAIPainter(os.Getenv("OPENAI_API_KEY")).Paint(ctx, prompt)
		if err != nil {
			return errors.Wrap(err, "image creation")
		}

		imgData, err := png.Decode(bytes.NewReader(imgBytes))
		if err != nil {
			return errors.Wrap(err, "PNG decode")
		}

		outPath, err := cmd.Flags().GetString("out")
		if err != nil {
			return errors.Wrap(err, "invalid out flag")
		}
		file, err := os.Create(outPath)
		if err != nil {
			return errors.Wrap(err, "file creation")
		}
		defer func(file *os.File) {
			_ = file.Close()
		}(file)

		if err = png.Encode(file, imgData); err != nil {
			return errors.Wrap(err, "PNG encode")
		}
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "The image was saved as %s\n", outPath)

		key, _ := cmd.Flags().GetString("upload")
		if key == "" {
			return nil
		}
		return upload(ctx, cmd, key, imgBytes)
	},
}

func upload(ctx context.Context, cmd *cobra.Command, key string, body []byte) error {
	var cfg artwork.Config
	if err := envstruct.Populate(&cfg, os.LookupEnv); err != nil {
		return errors.Wrap(err, "populate artwork config")
	}
	if !cfg.Enabled() {
		return errors.New("ARTWORK_BUCKET is not set")
	}
	store, err := artwork.NewS3Store(ctx, cfg)
	if err != nil {
		return errors.Wrap(err, "configure artwork store")
	}
	url, err := store.Put(ctx, key, body, "image/png")
	if err != nil {
		return errors.Wrap(err, "upload image")
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Published at %s\n", url)
	return nil
}
