package catalog

// plusRange is shared by the urine microscopy tests.
const plusRange = "None / + / ++ / +++"

var defaultEntries = []Entry{
	{"BLOOD GROUP", "Depends on type"},
	{"E.S.R", "0-22mm/hr(M),0-29mm/hr(W)"},
	{"PT", "11-13.5 seconds"},
	{"PTT", "25-35 seconds"},
	{"I.N.R", "0.8-1.1"},
	{"FIBRINOGEN", "200-400 mg/dL"},
	{"T3", "80-200 ng/dL"},
	{"T4", "5.0-12.0 µg/dL"},
	{"TSH", "0.4-4.0 mIU/L"},
	{"FT4", "0.7-1.9 ng/dL"},
	{"FT3", "2.3-4.2 pg/mL"},
	{"H.PYLORI-Ab", "Negative"},
	{"C.R.P", "< 3.0 mg/L"},
	{"TYPHOID IGG", "Negative"},
	{"TYPHOID IGM", "Negative"},
	{"S.cholesterol", "< 200 mg/dL"},
	{"S.triglyceride", "< 150 mg/dL"},
	{"RBS", "70-140 mg/dL"},
	{"B.UREA", "7-20 mg/dL"},
	{"S.CREATININE", "0.6-1.3 mg/dL"},
	{"URIC ACID", "3.5-7.2 mg/dL"},
	{"S.Alk", "44-147 IU/L"},
	{"S.G.O.T", "5-40 U/L"},
	{"S.G.P.T", "7-56 U/L"},
	{"LH", "1.24-7.8 IU/L"},
	{"FSH", "1.5-12.4 IU/L"},
	{"AMH", "1.0-4.0 ng/mL"},
	{"S.TESTO", "300-1000 ng/dL"},
	{"P.R.L", "4.8-23.3 ng/mL"},
	{"Urea Test", "7-20 mg/dL"},
	{"PUS", plusRange},
	{"R.B.C", "4.7-6.1 million cells/mcL"},
	{"EPTH. CELL", plusRange},
	{"Cast", plusRange},
	{"Ca Oxalate", plusRange},
	{"A.URATE", plusRange},
	{"A.PHOSPHATE", plusRange},
	{"Uric acid", "3.5-7.2 mg/dL"},
	{"MUCUS", plusRange},
	{"Bacteria", plusRange},
}

// Default returns the built-in catalog of the lab's standard tests.
func Default() *Catalog {
	c, err := New(defaultEntries)
	if err != nil {
		panic(err)
	}
	return c
}
