package config

type WorkerKeyStruct struct {
	RankExamsQueue string
}

var WorkerKey = &WorkerKeyStruct{
	RankExamsQueue: "rank_exams_queue",
}
