// Package main provides localization for the timelapse CLI.
package main

import (
	"github.com/ideamans/go-l10n"
)

func init() {
	// Register Japanese translations for CLI messages.
	l10n.Register("ja", l10n.LexiconMap{
		// Flag categories
		"Configuration": "設定",
		"Tools":         "ツール",
		"Output":        "出力",
		"Debug":         "デバッグ",
		"Logging":       "ログ",

		// Root command
		"Turn videos into timelapses by keeping every Nth frame":                                                                                            "N フレームごとに 1 フレームを残して動画をタイムラプスに変換",
		"timelapse converts each input video into an MP4 that keeps one frame out of every N, so the result plays N times faster at the source frame rate.": "timelapse は入力動画ごとに N フレームに 1 フレームを残した MP4 を作成します。元のフレームレートで再生されるため N 倍速になります。",

		// Commands
		"Convert videos into timelapses":        "動画をタイムラプスに変換",
		"Check that every video can be decoded": "すべての動画がデコードできるか確認",
		"Show stream information of videos":     "動画のストリーム情報を表示",
		"List the offered speed multipliers":    "選択できる倍速の一覧を表示",

		// Flags
		"YAML configuration file":                                                                   "YAML 設定ファイル",
		"Path to ffmpeg (falls back to FFMPEG_PATH env, then PATH)":                                 "ffmpeg のパス（未指定時は FFMPEG_PATH 環境変数、次に PATH）",
		"Path to ffprobe (falls back to FFPROBE_PATH env, then PATH)":                               "ffprobe のパス（未指定時は FFPROBE_PATH 環境変数、次に PATH）",
		"Log level (debug, info, warn, error)":                                                      "ログレベル（debug, info, warn, error）",
		"Suppress all log output":                                                                   "すべてのログ出力を抑制",
		"Speed multiplier, e.g. 10x (keeps every Nth frame)":                                        "倍速（例: 10x、N フレームごとに 1 フレームを残す）",
		"Attempt every file even after a failure":                                                   "失敗後も残りのファイルを処理",
		"Output execution summary to file (Markdown format)":                                        "実行サマリーをファイルに出力（Markdown形式）",
		"Save annotated kept frames to this directory":                                              "残したフレームを注釈付きでこのディレクトリに保存",
		"Save every Nth kept frame (default: 1)":                                                    "残したフレームの N 枚ごとに保存（デフォルト: 1）",
		"Destination reference; outputs go to its parent directory (default: <source dir>/outputs)": "出力先の参照パス。その親ディレクトリに出力（デフォルト: <元のディレクトリ>/outputs）",

		// Results
		"Converted %d files, %d frames written":         "%d 個のファイルを変換しました（%d フレーム書き出し）",
		"Conversion failed: %s":                         "変換に失敗しました: %s",
		"All %d files are readable videos":              "%d 個のファイルはすべて読み込める動画です",
		"%s is not a readable video: %s":                "%s は読み込める動画ではありません: %s",
		"Validation failed: %s":                         "検証に失敗しました: %s",
		"%d of %d files could not be probed":            "%[2]d 個中 %[1]d 個のファイルを解析できませんでした",
		"Failed to load configuration: %s":              "設定の読み込みに失敗しました: %s",
		"Choose a speed with --speed, e.g. --speed 10x": "--speed で倍速を指定してください（例: --speed 10x）",
		"ffmpeg is required: %s":                        "ffmpeg が必要です: %s",

		// Summary report
		"Timelapse Summary":   "タイムラプス変換サマリー",
		"Item":                "項目",
		"Value":               "値",
		"Result":              "結果",
		"Succeeded":           "成功",
		"Failed":              "失敗",
		"Speed":               "倍速",
		"Files":               "ファイル数",
		"Destination":         "出力先",
		"Next to each source": "各ファイルと同じ場所",
		"Failure Policy":      "失敗時の動作",
		"Elapsed":             "所要時間",
		"Failure":             "失敗",
		"File":                "ファイル",
		"Error":               "エラー",
		"Reason":              "理由",
		"Outputs":             "出力",
		"Source":              "入力",
		"Resolution":          "解像度",
		"FPS":                 "FPS",
		"Frames":              "フレーム",
		"Size":                "サイズ",
		"Generated by":        "生成:",
	})
}
