package xlog

import (
	"go.uber.org/zap/zapcore"
)

var _ xLogCore = (*writerCore)(nil)

// writerCore writes entries into a caller supplied writer.
// The list diagnostic printing tests capture the output through it.
type writerCore struct {
	*commonCore
}

func newWriterCore(ws zapcore.WriteSyncer) XLogCoreConstructor {
	return func(
		lvlEnabler zapcore.LevelEnabler,
		encoder logEncoderType,
		lvlEnc zapcore.LevelEncoder,
		tsEnc zapcore.TimeEncoder,
	) xLogCore {
		return &writerCore{
			commonCore: newCommonCore(
				lvlEnabler,
				ws,
				getEncoderByType(encoder),
				lvlEnc,
				tsEnc,
				consoleCoreEncoderCfg,
			),
		}
	}
}
