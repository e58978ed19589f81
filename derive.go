package main

import (
	"fmt"

	"imager/internal/core/domain"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var cropParams domain.CropParams

var cropCmd = &cobra.Command{
	Use:   "crop <file>",
	Short: "Crop a stored image synchronously",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newComponents()
		if err != nil {
			return err
		}

		if err := c.cropper.Crop(cmd.Context(), args[0], cropParams); err != nil {
			return err
		}

		key := domain.DerivativeKey(args[0], cropParams)
		log.Info().Str("derivative", key).Msg("crop written")
		_, err = fmt.Fprintln(cmd.OutOrStdout(), key)

		return err
	},
}

var resizeCmd = &cobra.Command{
	Use:   "resize <file> <resizeParams>",
	Short: "Resize a stored image synchronously, e.g. 50x50ftrue",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		params, err := domain.ParseResizeParams(args[1])
		if err != nil {
			return err
		}

		c, err := newComponents()
		if err != nil {
			return err
		}

		if err := c.resizer.Resize(cmd.Context(), args[0], params); err != nil {
			return err
		}

		key := domain.DerivativeKey(args[0], params)
		log.Info().Str("derivative", key).Msg("resize written")
		_, err = fmt.Fprintln(cmd.OutOrStdout(), key)

		return err
	},
}

func init() {
	cropCmd.Flags().IntVar(&cropParams.X, "x", 0, "left edge of the crop box")
	cropCmd.Flags().IntVar(&cropParams.Y, "y", 0, "top edge of the crop box")
	cropCmd.Flags().IntVar(&cropParams.Width, "width", 0, "crop box width")
	cropCmd.Flags().IntVar(&cropParams.Height, "height", 0, "crop box height")
	_ = cropCmd.MarkFlagRequired("width")
	_ = cropCmd.MarkFlagRequired("height")
}
