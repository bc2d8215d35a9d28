package domain

var Tables = []interface{}{
	// System
	&SysConfig{},
	&SysOpr{},
	&SysOprLog{},
	&SysScheduler{},
	// Inspection
	&Product{},
	&ComponentTest{},
	&ProductPhoto{},
}
