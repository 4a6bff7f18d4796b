// wqc is the operator CLI for the water-quality classifier: metric
// recognition, single-value classification, overall ratings, boundary
// lookups and spreadsheet reports.
//
// Usage:
//
//	wqc recognize "COD(Mn)" 氨氮
//	wqc classify --metric 总磷 --value 0.08 --station 朱家尖水库 --lake-stations 朱家尖
//	wqc overall Ⅱ类 4 合格
//	wqc boundaries --metric TP --water-type 湖库 --visual
//	wqc standards
//	wqc report --in observations.json --out report.xlsx --stations stations.csv
//	wqc stations --stations stations.csv
package main

import (
	"fmt"
	"os"
)

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
