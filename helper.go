// helper.go --  This file is part of goSPEX project.
// Mirzaeva Irina, 2024
//
//	goSPEX is distributed in the hope that it will be useful,
//	but WITHOUT ANY WARRANTY; without even the implied warranty
//	of MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.
//	See the GNU General Public License for more details.
//
//	You should have received a copy of the GNU General Public License
//	along with this program.  If not, see http://www.gnu.org/licenses/
//
// ------------------------------------------------
package main

import (
	"bufio"
	"fmt"
	"os"
	"runtime"
	"strconv"

	"gonum.org/v1/gonum/mat"
)

func ReadFileLines(fname string) ([]string, error) {
	var result []string
	var err error

	file, err := os.Open(fname)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		result = append(result, scanner.Text())
	}
	err = scanner.Err()

	return result, err
}

func TxtFileFrom2DSlice(data [][]float64, fname string) {
	var ftext string
	for i := 0; i < len(data); i++ {
		for j := 0; j < len(data[i]); j++ {
			ftext += fmt.Sprintf("%12.6f", data[i][j])
		}
		ftext += "\n"
	}
	err := os.WriteFile(fname, []byte(ftext), 0644)
	if err != nil {
		fmt.Println(err)
	}
}

// blockMatrix flattens a [rows, comps, props] block into per-sample
// rows of length comps*props.
func blockMatrix(b *TensorBlock) [][]float64 {
	rows, _, _ := b.Dims()
	res := make([][]float64, rows)
	for i := range res {
		res[i] = b.Row(i)
	}
	return res
}

// DumpBlocks writes every block of the expansion to its own text file
// under basename, named by the block key.
func DumpBlocks(tm *TensorMap, basename string) {
	os.Mkdir(basename, 0755)
	for i, block := range tm.Blocks {
		fname := "./" + basename + "/block"
		for _, k := range tm.Keys.Values[i] {
			fname += "_" + strconv.Itoa(k)
		}
		TxtFileFrom2DSlice(blockMatrix(block), fname+".txt")
	}
}

func PrintDense(D *mat.Dense) {
	fa := mat.Formatted(D, mat.Prefix("    "), mat.Squeeze())
	fmt.Printf("    %.8f\n", fa)
}

func MyMemDebug() {
	fmt.Println("-----------!!!!!!!!Enter MyMemDebug!!!!!!!!--------------")
	var memStats runtime.MemStats

	runtime.ReadMemStats(&memStats)

	fmt.Printf("Alloc: %d bytes\n", memStats.Alloc)
	fmt.Printf("TotalAlloc: %d bytes\n", memStats.TotalAlloc)
	fmt.Printf("HeapAlloc: %d bytes\n", memStats.HeapAlloc)
	fmt.Printf("HeapSys: %d bytes\n", memStats.HeapSys)
	fmt.Println("------------------------------------------!--------------")
}
