// Package media wraps the two ffmpeg invocations subfit needs: pulling an
// audio track out of a video for transcription, and burning a subtitle file
// into a copy of the video. Encoding settings beyond codec and bitrate are
// left to ffmpeg's defaults.
package media
