package interfaces

type SchedulerInterface interface {
	Init()
	Stop()
	Refresh()
}
