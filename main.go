// main.go --  This file is part of goSPEX project.
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
	"fmt"
	"io"
	"log"
	"os"
	"runtime"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

var (
	WarningLogger *log.Logger
	InfoLogger    *log.Logger
	ErrorLogger   *log.Logger
	OutputLogger  *log.Logger
)

var ElemData Mendeleev

func init() {
	ElemData.build()
	// quiet defaults until initLog points the loggers at the output file
	devNull := log.New(io.Discard, "", 0)
	InfoLogger, WarningLogger, ErrorLogger, OutputLogger = devNull, devNull, devNull, devNull
}

func initLog(fname string) {
	file, err := os.OpenFile(fname, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		log.Fatal(err)
	}

	InfoLogger = log.New(file, "INFO: ", log.Ldate|log.Ltime)
	WarningLogger = log.New(file, "WARNING: ", log.Ldate|log.Ltime)
	ErrorLogger = log.New(file, "ERROR: ", log.Ldate|log.Ltime|log.Lshortfile)
	OutputLogger = log.New(file, "", 0)
}

func appInfo() {
	OutputLogger.Print("\ngoSPEX -- spherical expansion coefficients for atomic structures.\n" +
		"Per-center densities over neighbor species (or pseudo-species),\n" +
		"radial channels and spherical-harmonic degrees.\n\n")
}

func printOutputDelimiter() {
	OutputLogger.Println(strings.Repeat("-", 70))
}

// RunConfig is everything an input file can set. Defaults mirror a
// small-molecule run: cutoff 3.0, E_max 20, discrete species.
type RunConfig struct {
	Molecules []*Molecule
	Hypers    Hypers
	Dump      string
}

func processInput(data []string) (RunConfig, error) {
	cfg := RunConfig{Hypers: Hypers{CutoffRadius: 3.0, RadialBasis: RadialBasisHypers{EMax: 20}}}
	for i := 0; i < len(data); i++ {
		words := strings.Fields(data[i])
		if len(words) == 0 {
			continue
		}
		switch strings.ToLower(words[0]) {
		case "atoms":
			atom_start := i
			atom_end, err := findBlockEnd(i, data, "Atoms")
			if err != nil {
				return cfg, err
			}
			var mol Molecule
			if err := mol.addAtoms(data, atom_start+1, atom_end-1); err != nil {
				return cfg, err
			}
			cfg.Molecules = append(cfg.Molecules, &mol)
			OutputLogger.Print("Parsing input. Atoms block found at lines ", atom_start, " -- ", atom_end, ".")
			i = atom_end
		case "cutoff":
			cfg.Hypers.CutoffRadius, _ = strconv.ParseFloat(words[1], 64)
		case "emax":
			cfg.Hypers.RadialBasis.EMax, _ = strconv.ParseFloat(words[1], 64)
		case "alchemical":
			cfg.Hypers.Alchemical, _ = strconv.Atoi(words[1])
		case "dump":
			cfg.Dump = "coeffs"
			if len(words) > 1 {
				cfg.Dump = words[1]
			}
		case "nprocs":
			nprocs, _ := strconv.Atoi(words[1])
			runtime.GOMAXPROCS(nprocs)
			OutputLogger.Print("Parsing input. Number of threads set to " + words[1] + ".")
		}
	}
	if len(cfg.Molecules) == 0 {
		return cfg, fmt.Errorf("%w: no Atoms blocks in input", ErrBadHypers)
	}
	return cfg, nil
}

func findBlockEnd(n int, data []string, bname string) (int, error) {
	for i := n; i < len(data); i++ {
		words := strings.Fields(data[i])
		if len(words) > 0 {
			if strings.ToLower(words[0]) == "end" {
				return i, nil
			}
		}
	}
	return 0, fmt.Errorf("%w: no end of block %s", ErrBadHypers, bname)
}

func main() {
	var inpFname, outFname string
	if len(os.Args) > 1 {
		inpFname = os.Args[1]
		split_inpFname := strings.Split(inpFname, ".")
		fExt := split_inpFname[len(split_inpFname)-1]
		outFname = inpFname[0:(len(inpFname)-len(fExt))] + "out"
		fmt.Println("Output file: ", outFname)
	} else {
		log.Fatal("No input file.")
	}

	initLog(outFname)

	InfoLogger.Println("Starting goSPEX...")
	appInfo()

	inpData, err := ReadFileLines(inpFname)
	if err != nil {
		ErrorLogger.Fatal("Cannot read input file: ", err)
	}
	OutputLogger.Println("Input file content:")
	printOutputDelimiter()
	for _, i := range inpData {
		OutputLogger.Println(i)
	}
	printOutputDelimiter()

	cfg, err := processInput(inpData)
	if err != nil {
		ErrorLogger.Fatal(err)
	}

	allSpecies := Species(cfg.Molecules)
	OutputLogger.Println("Species vocabulary: ", allSpecies)

	batch, err := NewBatch(cfg.Molecules, cfg.Hypers.CutoffRadius)
	if err != nil {
		ErrorLogger.Fatal(err)
	}
	OutputLogger.Println("Batch: ", batch.NAtoms(), " atoms, ", batch.NPairs(), " pairs in ",
		len(cfg.Molecules), " structures.")
	if batch.NPairs() > 0 && batch.NPairs() <= 12 {
		fmt.Println("Direction vectors:")
		PrintDense(batch.DirectionVectors)
	}

	calc, err := NewSphericalExpansion(cfg.Hypers, allSpecies)
	if err != nil {
		ErrorLogger.Fatal(err)
	}
	OutputLogger.Println("Radial basis: l_max = ", calc.LMax, ", n_max per degree = ", calc.VectorExpansion.RadialBasis.NMax)
	printOutputDelimiter()

	expansion, err := calc.Forward(batch)
	if err != nil {
		ErrorLogger.Fatal(err)
	}

	OutputLogger.Println("Spherical expansion with ", len(expansion.Blocks), " blocks:")
	for i, block := range expansion.Blocks {
		rows, comps, props := block.Dims()
		line := fmt.Sprint("key ", expansion.Keys.Values[i], ": ", rows, " x ", comps, " x ", props)
		if rows > 0 {
			line += fmt.Sprint(", |c| = ", floats.Norm(block.Values, 2), ", mean = ", stat.Mean(block.Values, nil))
		}
		OutputLogger.Println(line)
		fmt.Println(line)
	}
	printOutputDelimiter()

	if cfg.Dump != "" {
		DumpBlocks(expansion, cfg.Dump)
		OutputLogger.Println("Coefficient blocks written under ./" + cfg.Dump + "/")
	}

	MyMemDebug()

	InfoLogger.Println("Exiting goSPEX...")
	fmt.Println("goSPEX done.")
}
