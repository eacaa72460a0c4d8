package consts

const (
	// 投资人角色
	Buffett = "Buffett"
	Graham  = "Graham"
	Lynch   = "Lynch"
)

// Personas is the fixed panel order.
var Personas = []string{Buffett, Graham, Lynch}

// 智能体图节点
const (
	NodeLoad  = "load"
	NodeAgent = "agent"
	NodeParse = "parse"
)
