package ports

type SimMetrics interface {
	RecordAdvance(weeks int)
	RecordCommand(commandType string)
	RecordRejection(code string)
	RecordConflict()
}
