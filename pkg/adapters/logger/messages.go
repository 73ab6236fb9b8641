package logger

import "github.com/ideamans/go-l10n"

func init() {
	l10n.Register("ja", l10n.LexiconMap{
		// Batch level messages (info)
		"Validating %d files":                        "%d 個のファイルを検証中",
		"Converting %d files at %dx":                 "%d 個のファイルを %d 倍速に変換中",
		"Processing file %d of %d: %s":               "ファイル %d / %d を処理中: %s",
		"Saved %s (%d of %d frames)":                 "%s を保存しました (%d / %d フレーム)",
		"Failed to convert %s: %s":                   "%s の変換に失敗しました: %s",
		"Batch completed successfully":               "バッチが正常に完了しました",
		"Batch rejected: %s is not a readable video": "バッチを中止しました: %s は読み込める動画ではありません",
		"Batch rejected: %s":                         "バッチを中止しました: %s",
		"Interrupted, shutting down...":              "中断されました。シャットダウン中...",

		// CLI
		"Unsupported file %s":                   "未対応のファイル: %s",
		"Unsupported files: %s (supported: %s)": "未対応のファイル: %s (対応形式: %s)",
		"No video files given":                  "動画ファイルが指定されていません",
		"Summary written to %s":                 "サマリーを %s に書き出しました",
		"Failed to write summary: %s":           "サマリーの書き出しに失敗しました: %s",
		"Loaded configuration from %s":          "%s から設定を読み込みました",
		"Failed to probe %s: %s":                "%s の解析に失敗しました: %s",
		"Debug frames will be saved to %s":      "デバッグ用フレームを %s に保存します",

		// Validate stage
		"Valid video %s":       "有効な動画: %s",
		"Invalid video %s: %s": "無効な動画 %s: %s",

		// Resolve stage
		"Resolved %s to %s":       "%s の出力先: %s",
		"Failed to create %s: %s": "%s の作成に失敗しました: %s",

		// Decimate stage
		"Opened %s: %dx%d, %.3f fps, %d frames reported": "%s を開きました: %dx%d, %.3f fps, 報告フレーム数 %d",
		"Kept %d of %d frames from %s":                   "%[3]s から %[2]d フレーム中 %[1]d フレームを残しました",
		"Failed to save debug frame %d: %s":              "デバッグ用フレーム %d の保存に失敗しました: %s",

		// ffmpeg component
		"Decoding %s (%s, %dx%d)":                      "%s をデコード中 (%s, %dx%d)",
		"Encoding %s at %dx%d, %v fps":                 "%s を %dx%d, %v fps でエンコード中",
		"Native probe of %s failed, using ffprobe: %s": "%s のネイティブ解析に失敗したため ffprobe を使用します: %s",
	})
}
